package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name  string `yaml:"name"`
	Token string `yaml:"token"`
}

type validatedConfig struct {
	Name string `yaml:"name"`
}

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CONFIG_TOKEN", "from-env")
	path := writeFile(t, "name: app\ntoken: ${TEST_CONFIG_TOKEN}\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("token = %q, want expanded env value", cfg.Token)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load("/nonexistent/config.yaml", &cfg); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "name: [unclosed\n")
	var cfg testConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("want error for invalid yaml")
	}
}

func TestLoad_RunsValidator(t *testing.T) {
	path := writeFile(t, "name: \"\"\n")
	var cfg validatedConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("want validation error for empty name")
	}
}
