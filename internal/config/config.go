package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
	State  StateConfig  `yaml:"state"`
	Log    LogConfig    `yaml:"log"`
}

type APIConfig struct {
	// BaseURL is the backend origin all remote calls go to.
	BaseURL string `yaml:"base_url"`
}

type ServerConfig struct {
	// Addr is the local address the UI listens on.
	Addr string `yaml:"addr"`
}

type StateConfig struct {
	// Path is the local state file holding session and project continuity.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment
// variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		State: StateConfig{
			Path: "spendsheet.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("SPENDSHEET_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv("SPENDSHEET_API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if addr := os.Getenv("SPENDSHEET_LISTEN_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if statePath := os.Getenv("SPENDSHEET_STATE_PATH"); statePath != "" {
		cfg.State.Path = statePath
	}
	if level := os.Getenv("SPENDSHEET_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
