package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is read from the environment; every field has a working default.
type Config struct {
	APIURL      string        `env:"MINDVISION_API_URL,      default=http://localhost:5000/api"`
	WebURL      string        `env:"MINDVISION_WEB_URL,      default=http://localhost:3000"`
	Home        string        `env:"MINDVISION_HOME"`
	LogLevel    string        `env:"MINDVISION_LOG_LEVEL,    default=info"`
	LogFile     string        `env:"MINDVISION_LOG_FILE"`
	HTTPTimeout time.Duration `env:"MINDVISION_HTTP_TIMEOUT, default=30s"`
	QuoteURL    string        `env:"MINDVISION_QUOTE_URL,    default=https://api.quotable.io/quotes/random"`
}

// QuoteSource is the home page quote endpoint, or "" when the banner is
// turned off with MINDVISION_QUOTE_URL=off.
func (c *Config) QuoteSource() string {
	if strings.EqualFold(strings.TrimSpace(c.QuoteURL), "off") {
		return ""
	}
	return strings.TrimSpace(c.QuoteURL)
}

// SessionFile is where the session record is persisted.
func (c *Config) SessionFile() string {
	return filepath.Join(c.Home, "session.json")
}

// LogPath is the log destination, defaulting to a file in Home.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.Home, "mindvision.log")
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".mindvision")
	}
	return &cfg, nil
}
