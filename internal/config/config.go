package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"`    // polling | webhook (future)
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // sqlite file path
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables rate limiting
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type FacebookConfig struct {
	AccessToken string        `yaml:"access_token"` // optional Graph API token
	GraphURL    string        `yaml:"graph_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer key for the admin HTTP API
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Facebook FacebookConfig `yaml:"facebook"`
	Admin    AdminConfig    `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file once at startup; the returned config is
// treated as immutable and passed into constructors.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if len(cfg.Bot.AdminIDs) == 0 {
		return nil, errors.New("bot.admin_ids is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "polling"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "uids.db"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Facebook.GraphURL == "" {
		cfg.Facebook.GraphURL = "https://graph.facebook.com/v17.0"
	}
	if cfg.Facebook.Timeout <= 0 {
		cfg.Facebook.Timeout = 10 * time.Second
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8081
	}
}
