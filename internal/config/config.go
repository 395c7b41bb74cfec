package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL        = "https://api.themoviedb.org/3/"
	defaultDatabasePath   = "./data/movies.db"
	defaultTimeoutSeconds = 30
	defaultLogLevel       = "info"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds catalog API configuration
type APIConfig struct {
	BaseURL        string `yaml:"base_url" env:"MOVIE_API_BASE_URL"`
	Token          string `yaml:"token" env:"MOVIE_API_TOKEN"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"MOVIE_API_TIMEOUT_SECONDS"`
}

// StorageConfig holds the local cache settings
type StorageConfig struct {
	Path string `yaml:"path" env:"MOVIE_DB_PATH"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// Timeout is the HTTP timeout for catalog requests.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads and parses the configuration file, then applies environment
// overrides. An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// Expand ~ to home directory if present
		if path[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			path = filepath.Join(home, path[1:])
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultDatabasePath
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.API.Token == "your_api_token_here" {
		return fmt.Errorf("replace the placeholder API token. Get one from https://www.themoviedb.org/settings/api")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}
