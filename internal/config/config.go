package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Cache backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Environments
const (
	Development = "dev"
	Production  = "prod"
)

// Config is the process configuration, read from the environment with an
// optional .env file.
type Config struct {
	Env string `env:"ENV" env-default:"dev"`

	GarminToken string `env:"GARMIN_TOKEN" env-required:""`
	GarminName  string `env:"GARMIN_NAME"`

	Server struct {
		Host string `env:"SERVER_HOST" env-default:"localhost"`
		Port int    `env:"SERVER_PORT" env-default:"5000"`
	}

	Cache struct {
		Dir     string `env:"CACHE_DIR" env-default:"cache"`
		Backend string `env:"CACHE_BACKEND" env-default:"file"`
	}

	// OverridesPath points at the device override file; a missing or
	// malformed file means defaults, never an error.
	OverridesPath string `env:"OVERRIDES_PATH" env-default:"overrides.json"`

	DefaultMonths int `env:"DEFAULT_MONTHS" env-default:"2"`

	// RefreshCron, when set, schedules a periodic invalidate-and-refetch of
	// the default range.
	RefreshCron string `env:"REFRESH_CRON"`
}

// Load reads configuration from envFile (when it exists) and the process
// environment.
func Load(envFile string) (*Config, error) {
	cfg := &Config{}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := cleanenv.ReadConfig(envFile, cfg); err != nil {
				return nil, fmt.Errorf("reading %s: %w", envFile, err)
			}
			return cfg, cfg.validate()
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Env != Development && c.Env != Production {
		return fmt.Errorf(`ENV must be %q or %q, got %q`, Development, Production, c.Env)
	}
	if c.Cache.Backend != BackendFile && c.Cache.Backend != BackendSQLite {
		return fmt.Errorf(`CACHE_BACKEND must be %q or %q, got %q`, BackendFile, BackendSQLite, c.Cache.Backend)
	}
	if c.GarminToken == "" {
		return errors.New("GARMIN_TOKEN is required, run the oauth setup first")
	}
	if c.DefaultMonths < 1 {
		return fmt.Errorf("DEFAULT_MONTHS must be at least 1, got %d", c.DefaultMonths)
	}
	return nil
}
