// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// ScrapeConfig governs fetch and pagination behavior against the tracking sites.
type ScrapeConfig struct {
	UserAgent       string `mapstructure:"user_agent"`
	DelaySeconds    int    `mapstructure:"delay_seconds"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// AnalysisConfig configures the external narrative-analysis call.
// APIKey has no default and must come from the environment
// (PORTWATCH_ANALYSIS_API_KEY); analysis is skipped when it is empty.
type AnalysisConfig struct {
	Endpoint          string `mapstructure:"endpoint"`
	Model             string `mapstructure:"model"`
	APIKey            string `mapstructure:"api_key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PORTWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// api_key deliberately has no default, so Unmarshal only sees it
	// through an explicit env binding.
	_ = v.BindEnv("analysis.api_key")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout_seconds", 120)
	v.SetDefault("scrape.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("scrape.delay_seconds", 1)
	v.SetDefault("scrape.timeout_seconds", 15)
	v.SetDefault("scrape.cache_ttl_seconds", 300)
	v.SetDefault("analysis.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("analysis.model", "gpt-4o-mini")
	v.SetDefault("analysis.requests_per_minute", 20)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if c.Scrape.TimeoutSeconds <= 0 {
		return fmt.Errorf("scrape.timeout_seconds must be > 0")
	}
	if c.Scrape.DelaySeconds < 0 {
		return fmt.Errorf("scrape.delay_seconds must be >= 0")
	}
	if c.Analysis.RequestsPerMinute <= 0 {
		return fmt.Errorf("analysis.requests_per_minute must be > 0")
	}
	return nil
}

// FetchTimeout returns the per-page fetch budget.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Scrape.TimeoutSeconds) * time.Second
}

// PageDelay returns the politeness delay between successive page fetches.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.Scrape.DelaySeconds) * time.Second
}

// CacheTTL returns the freshness window for cached page bodies.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Scrape.CacheTTLSeconds) * time.Second
}

// RequestTimeout returns the whole-handler budget.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
