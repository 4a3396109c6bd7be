package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	CatAPIBaseURL      string        `mapstructure:"cat_api_base_url"`
	CatAPIKey          string        `mapstructure:"cat_api_key"`
	CatAPISubID        string        `mapstructure:"cat_api_sub_id"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	FavouriteSinksFile string `mapstructure:"favourite_sinks_file"`
	HTMLOutput         string `mapstructure:"html_output"`
	ShowProgress       bool   `mapstructure:"show_progress"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-breed-browser")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("cat_api_base_url", "https://api.thecatapi.com/v1/")
	v.SetDefault("cat_api_key", "")
	v.SetDefault("cat_api_sub_id", "")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("favourite_sinks_file", "")
	v.SetDefault("html_output", "")
	v.SetDefault("show_progress", true)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CatAPIBaseURL = strings.TrimSpace(cfg.CatAPIBaseURL)
	cfg.CatAPIKey = strings.TrimSpace(cfg.CatAPIKey)
	cfg.CatAPISubID = strings.TrimSpace(cfg.CatAPISubID)

	if cfg.CatAPIBaseURL == "" {
		return nil, fmt.Errorf("cat_api_base_url is required")
	}
	if cfg.CatAPIKey == "" {
		return nil, fmt.Errorf("cat_api_key is required (set CAT_API_KEY or configs/.env)")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}

// String renders the config for logging with the API key redacted.
func (c Config) String() string {
	key := "<unset>"
	if c.CatAPIKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("app=%s env=%s base_url=%s api_key=%s timeout=%s favourite_sinks_file=%q html_output=%q",
		c.AppName, c.Env, c.CatAPIBaseURL, key, c.HTTPTimeout, c.FavouriteSinksFile, c.HTMLOutput)
}
