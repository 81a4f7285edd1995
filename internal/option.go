package internal

import "github.com/ethanf/roam-research-mcp/internal/store"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	store  store.Store
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore overrides the Roam client, used in tests.
func WithStore(st store.Store) Option {
	return func(a *application) {
		a.store = st
	}
}
