package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment names a deployment stage.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Environment  Environment   `envconfig:"APP_ENV" default:"development"`
	BaseURL      string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
	Timeout      time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	Token        string        `envconfig:"API_TOKEN"`
	UserID       string        `envconfig:"API_USER_ID"`
	Role         string        `envconfig:"API_ROLE" default:"admin"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	ManifestPath string        `envconfig:"VIEWS_MANIFEST"`
	RedisURL     string        `envconfig:"REDIS_URL"`
	MetricsAddr  string        `envconfig:"METRICS_ADDR"`
	ClearOnError bool          `envconfig:"CLEAR_ON_ERROR" default:"false"`
}

// Load reads the given dotenv files, when present, then the process
// environment. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the stack cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("config: API_BASE_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: API_TIMEOUT must be positive, got %s", c.Timeout)
	}
	switch c.Environment {
	case Development, Production, Test:
	default:
		return fmt.Errorf("config: unknown APP_ENV %q", c.Environment)
	}
	return nil
}
