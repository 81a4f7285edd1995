package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ethanf/roam-research-mcp/internal"
	pkgconfig "github.com/ethanf/roam-research-mcp/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else {
		// No config file: run from environment only.
		cfg.Roam.Token = os.Getenv("ROAM_API_TOKEN")
		cfg.Roam.Graph = os.Getenv("ROAM_GRAPH_NAME")
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	if cmd.Bool("http") {
		cfg.App.HTTP.Enabled = true
	}
	if cmd.Bool("no-stdio") {
		cfg.App.Stdio = false
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "roam-research-mcp",
		Usage:  "MCP and REST tool server over a Roam Research graph",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (optional; env vars used otherwise)",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "http",
				Usage: "Serve the REST API in addition to the configured transports",
			},
			&cli.BoolFlag{
				Name:  "no-stdio",
				Usage: "Disable the MCP stdio transport",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
