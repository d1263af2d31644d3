// Package config loads application configuration from a YAML file, a .env
// file, and POSTFORGE_* environment variables, in that order of increasing
// precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      App      `mapstructure:"app"`
	Server   Server   `mapstructure:"server"`
	Provider Provider `mapstructure:"provider"`
	Scrape   Scrape   `mapstructure:"scrape"`
}

// App holds general application configuration.
type App struct {
	DataDir  string `mapstructure:"data_dir"`
	LogLevel string `mapstructure:"log_level"`
}

// Server holds HTTP API server configuration.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Provider holds settings for outbound LLM provider calls.
type Provider struct {
	Timeout        string `mapstructure:"timeout"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

// Scrape holds settings for reference-link scraping.
type Scrape struct {
	Timeout   string `mapstructure:"timeout"`
	UserAgent string `mapstructure:"user_agent"`
}

var globalConfig *Config

// Load reads configuration from the given file (or .postforge.yaml in the
// working directory and $HOME when empty), layered under .env and
// environment variables.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".postforge")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	viper.SetEnvPrefix("POSTFORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it with defaults if Load has
// not been called yet.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

func setDefaults() {
	viper.SetDefault("app.data_dir", ".postforge")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("provider.timeout", "60s")
	viper.SetDefault("provider.max_concurrency", 5)
	viper.SetDefault("scrape.timeout", "30s")
	viper.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
}

// ProviderTimeout parses the configured provider timeout, falling back to 60s
// on malformed input.
func (c *Config) ProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// ScrapeTimeout parses the configured scrape timeout, falling back to 30s.
func (c *Config) ScrapeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Scrape.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
