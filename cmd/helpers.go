package cmd

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/config"
	"github.com/ziadkadry99/astroquery/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `astroquery init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the zap logger at the configured level; --verbose forces
// debug.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := string(cfg.LogLevel)
	if verbose {
		level = string(config.LogDebug)
	}
	return logging.New(level)
}

// newBackendClient creates the backend client shared by every service.
func newBackendClient(cfg *config.Config, logger *zap.Logger) *backend.Client {
	return backend.New(cfg.BackendURL, logger.Named("backend"),
		backend.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}))
}
