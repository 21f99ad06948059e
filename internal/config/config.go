// Package config loads the application configuration from an optional
// TOML file layered under ACADEMIA_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Email    EmailConfig    `koanf:"email"`
	Billing  BillingConfig  `koanf:"billing"`
	Jobs     JobsConfig     `koanf:"jobs"`
}

// ServerConfig holds the HTTP service configuration.
type ServerConfig struct {
	Addr    string `koanf:"addr"`
	BaseURL string `koanf:"base_url"`
}

// DatabaseConfig holds the SQLite configuration.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// EmailConfig holds the Resend configuration. An empty API key selects
// the no-op sender.
type EmailConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	From         string `koanf:"from"`
	ReplyTo      string `koanf:"reply_to"`
}

// BillingConfig holds the payment gateway configuration. An empty base
// URL selects the simulated gateway.
type BillingConfig struct {
	GatewayBaseURL string `koanf:"gateway_base_url"`
	GatewayAPIKey  string `koanf:"gateway_api_key"`
}

// JobsConfig holds the background job schedules (cron expressions).
type JobsConfig struct {
	NightlyRollover string `koanf:"nightly_rollover"`
}

// defaults are the baseline every other layer overrides.
var defaults = map[string]interface{}{
	"server.addr":           ":8080",
	"server.base_url":       "http://localhost:8080",
	"database.path":         "academia.db",
	"email.from":            "Academia <noreply@academia.local>",
	"jobs.nightly_rollover": "0 3 * * *",
}

// Load reads configuration: defaults, then the TOML file at path (if it
// exists), then ACADEMIA_* environment variables. ACADEMIA_SERVER__ADDR
// overrides server.addr; a double underscore separates sections.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: "ACADEMIA_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "ACADEMIA_"))
			return strings.ReplaceAll(key, "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks if the configuration is usable.
func validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if cfg.Email.ResendAPIKey != "" && cfg.Email.From == "" {
		return fmt.Errorf("email.from is required when a Resend key is set")
	}
	if cfg.Billing.GatewayBaseURL != "" && cfg.Billing.GatewayAPIKey == "" {
		return fmt.Errorf("billing.gateway_api_key is required when a gateway URL is set")
	}
	if cfg.Jobs.NightlyRollover == "" {
		return fmt.Errorf("jobs.nightly_rollover is required")
	}
	return nil
}
