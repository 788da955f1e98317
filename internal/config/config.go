// Package config содержит логику чтения конфигурации витрины.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации витрины.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	StoreDSN      string `env:"STORE_DSN"`
	CatalogFile   string `env:"CATALOG_FILE"`
	SessionSecret string `env:"SESSION_SECRET"`

	AuthDelay     time.Duration `env:"AUTH_DELAY"`
	ProfileDelay  time.Duration `env:"PROFILE_DELAY"`
	CheckoutDelay time.Duration `env:"CHECKOUT_DELAY"`
	TrackDelay    time.Duration `env:"TRACK_DELAY"`

	NotificationTTL time.Duration `env:"NOTIFICATION_TTL"`
	SessionTTL      time.Duration `env:"SESSION_TTL"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	fs.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	fs.StringVar(&cfg.StoreDSN, "d", "", "session store DSN: postgres://..., sqlite://<path> or empty for memory")
	fs.StringVar(&cfg.CatalogFile, "c", "", "catalog YAML file (embedded catalog when empty)")
	fs.StringVar(&cfg.SessionSecret, "s", "", "session cookie signing secret")

	fs.DurationVar(&cfg.AuthDelay, "auth-delay", 1500*time.Millisecond, "simulated login/signup latency")
	fs.DurationVar(&cfg.ProfileDelay, "profile-delay", 800*time.Millisecond, "simulated profile update latency")
	fs.DurationVar(&cfg.CheckoutDelay, "checkout-delay", 2*time.Second, "simulated order placement latency")
	fs.DurationVar(&cfg.TrackDelay, "track-delay", 1500*time.Millisecond, "simulated order tracking latency")

	fs.DurationVar(&cfg.NotificationTTL, "notification-ttl", 3*time.Second, "notification display time")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 24*time.Hour, "idle session lifetime")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", time.Minute, "idle session sweep period")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	for name, d := range map[string]time.Duration{
		"auth delay":     c.AuthDelay,
		"profile delay":  c.ProfileDelay,
		"checkout delay": c.CheckoutDelay,
		"track delay":    c.TrackDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative: %s", name, d)
		}
	}

	if c.NotificationTTL <= 0 || c.SessionTTL <= 0 || c.SweepInterval <= 0 {
		return errors.New("notification ttl, session ttl and sweep interval must be positive")
	}
	return nil
}
