package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	PolicyRedirect = "redirect"
	PolicyReject   = "reject"
)

// SessionSecretEnv overrides the cookie-signing secret from the config
// file. The secret must come from one of the two, never from code.
const SessionSecretEnv = "SEMLA_SESSION_SECRET"

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	Sessions struct {
		RedisURL   string `toml:"redis_url"`
		Secret     string `toml:"secret"`
		CookieName string `toml:"cookie_name"`
		TTLMinutes int    `toml:"ttl_minutes"`
	} `toml:"sessions"`

	Auth struct {
		OnUnauthorized string `toml:"on_unauthorized"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	if secret := os.Getenv(SessionSecretEnv); secret != "" {
		config.Sessions.Secret = secret
	}
	if config.Sessions.Secret == "" {
		return nil, fmt.Errorf("session secret is not set, provide sessions.secret or %s", SessionSecretEnv)
	}

	if config.Sessions.CookieName == "" {
		config.Sessions.CookieName = "semla_session"
	}
	if config.Sessions.TTLMinutes <= 0 {
		config.Sessions.TTLMinutes = 60
	}

	switch config.Auth.OnUnauthorized {
	case "":
		config.Auth.OnUnauthorized = PolicyRedirect
	case PolicyRedirect, PolicyReject:
	default:
		return nil, fmt.Errorf("unknown on_unauthorized policy: %q", config.Auth.OnUnauthorized)
	}

	if config.Database.MigrationsDir == "" {
		config.Database.MigrationsDir = "./migrations"
	}

	logger.Debug.Printf("Loaded config: port=%s policy=%s", config.Server.Port, config.Auth.OnUnauthorized)

	return &config, nil
}
