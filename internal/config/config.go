package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultDBPath is where the seeded SQLite database is written, relative to
// the working directory.
const DefaultDBPath = "./data/inflow.sqlite"

// ErrMissingCredentials is returned by Validate when either required
// credential is absent.
var ErrMissingCredentials = errors.New("Missing INFLOW_API_KEY or INFLOW_COMPANY_ID") //nolint:staticcheck // printed verbatim

// Config holds application configuration loaded from environment variables.
type Config struct {
	APIKey         string        `env:"INFLOW_API_KEY"`
	CompanyID      string        `env:"INFLOW_COMPANY_ID"`
	BaseURL        string        `env:"INFLOW_BASE_URL"        envDefault:"https://cloudapi.inflowinventory.com"`
	PageSize       int           `env:"INFLOW_PAGE_SIZE"       envDefault:"100"`
	MaxRetries     int           `env:"INFLOW_MAX_RETRIES"     envDefault:"5"`
	RequestTimeout time.Duration `env:"INFLOW_REQUEST_TIMEOUT" envDefault:"30s"`
	LogLevel       string        `env:"INFLOW_LOG_LEVEL"       envDefault:"info"`

	// DBPath is fixed to DefaultDBPath by Load.
	DBPath string
}

// Load parses configuration from the given environment map. The process
// environment is never consulted directly; callers pass it in.
func Load(environ map[string]string) (Config, error) {
	var cfg Config
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBPath = DefaultDBPath
	return cfg, nil
}

// RequireCredentials reports ErrMissingCredentials when either credential is
// absent or empty in environ. It looks at nothing else, so it can run before
// the rest of the environment is parsed.
func RequireCredentials(environ map[string]string) error {
	if environ["INFLOW_API_KEY"] == "" || environ["INFLOW_COMPANY_ID"] == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Validate reports whether the required credentials are present.
func (c Config) Validate() error {
	if c.APIKey == "" || c.CompanyID == "" {
		return ErrMissingCredentials
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("INFLOW_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("INFLOW_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	return nil
}
