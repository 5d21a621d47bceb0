package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Apify  ApifyConfig  `yaml:"apify"`
	Notify NotifyConfig `yaml:"notify"`
	Auth   AuthConfig   `yaml:"auth"`
	Scan   ScanConfig   `yaml:"scan"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// ApifyConfig points at the hosted scraping actor that does the actual
// Instagram crawling for us
type ApifyConfig struct {
	BaseURL        string `yaml:"base_url"`
	Actor          string `yaml:"actor"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type NotifyConfig struct {
	WebhookURL  string `yaml:"webhook_url"`
	PauseMillis int    `yaml:"pause_millis"`
}

type AuthConfig struct {
	SessionSecret    string `yaml:"session_secret"`
	Password         string `yaml:"password"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type ScanConfig struct {
	WindowHours         int    `yaml:"window_hours"`
	DefaultLimit        int    `yaml:"default_limit"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	Tags                string `yaml:"tags"` // comma-separated override of the stored tag list
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var GlobalConfig *Config

// Load reads the yaml config file, applies environment overrides for
// secrets, then fills in defaults. A missing file is not an error:
// everything can come from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	if v := os.Getenv("PORT"); v != "" {
		if port, convErr := strconv.Atoi(v); convErr == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("APIFY_TOKEN"); v != "" {
		cfg.Apify.Token = v
	}
	if v := os.Getenv("NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("MONITORED_TAGS"); v != "" {
		cfg.Scan.Tags = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("DASHBOARD_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Apify.BaseURL == "" {
		cfg.Apify.BaseURL = "https://api.apify.com"
	}
	if cfg.Apify.Actor == "" {
		cfg.Apify.Actor = "apify~instagram-hashtag-scraper"
	}
	if cfg.Apify.TimeoutSeconds == 0 {
		cfg.Apify.TimeoutSeconds = 90
	}
	if cfg.Notify.PauseMillis == 0 {
		cfg.Notify.PauseMillis = 600
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Scan.WindowHours == 0 {
		cfg.Scan.WindowHours = 48
	}
	if cfg.Scan.DefaultLimit == 0 {
		cfg.Scan.DefaultLimit = 20
	}
	if cfg.Scan.FetchTimeoutSeconds == 0 {
		cfg.Scan.FetchTimeoutSeconds = 120
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "caratbridge.db"
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
