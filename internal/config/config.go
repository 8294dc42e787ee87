package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Discord   OAuthConfig     `yaml:"discord"`
	Google    OAuthConfig     `yaml:"google"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

type SessionConfig struct {
	Lifetime time.Duration `yaml:"lifetime"`
}

// RateLimitConfig limits write requests per authenticated user.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type OAuthConfig struct {
	Key         string `yaml:"key"`
	Secret      string `yaml:"secret"`
	CallbackURL string `yaml:"callback_url"`
}

func Default() *Config {
	return &Config{
		Database:  DatabaseConfig{Path: "scorebrawl.db"},
		HTTP:      HTTPConfig{Addr: ":8080"},
		Log:       LogConfig{Level: "info", Format: "text"},
		Session:   SessionConfig{Lifetime: 24 * time.Hour},
		RateLimit: RateLimitConfig{RPS: 2, Burst: 10},
	}
}

// Load reads the YAML file at path on top of the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("SESSION_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_LIFETIME value: %w", err)
		}
		cfg.Session.Lifetime = d
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS value: %w", err)
		}
		cfg.RateLimit.RPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST value: %w", err)
		}
		cfg.RateLimit.Burst = n
	}

	if v := os.Getenv("DISCORD_KEY"); v != "" {
		cfg.Discord.Key = v
	}
	if v := os.Getenv("DISCORD_SECRET"); v != "" {
		cfg.Discord.Secret = v
	}
	if v := os.Getenv("DISCORD_CALLBACK_URL"); v != "" {
		cfg.Discord.CallbackURL = v
	}
	if v := os.Getenv("GOOGLE_KEY"); v != "" {
		cfg.Google.Key = v
	}
	if v := os.Getenv("GOOGLE_SECRET"); v != "" {
		cfg.Google.Secret = v
	}
	if v := os.Getenv("GOOGLE_CALLBACK_URL"); v != "" {
		cfg.Google.CallbackURL = v
	}
	return nil
}
