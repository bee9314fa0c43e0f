package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	MCP     MCPConfig     `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
	// Atomic picks the time-log executor: "auto" probes the backend at
	// startup, "on" and "off" force a choice.
	Atomic string `yaml:"atomic"`
}

type StorageConfig struct {
	UploadsDir string `yaml:"uploads_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path:   "tally.db",
			Atomic: "auto",
		},
		Storage: StorageConfig{
			UploadsDir: "data/uploads",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("TALLY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TALLY_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TALLY_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TALLY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TALLY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if atomic := os.Getenv("TALLY_DB_ATOMIC"); atomic != "" {
		cfg.DB.Atomic = atomic
	}
	if dir := os.Getenv("TALLY_UPLOADS_DIR"); dir != "" {
		cfg.Storage.UploadsDir = dir
	}
	if level := os.Getenv("TALLY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mcpStr := os.Getenv("TALLY_MCP_ENABLED"); mcpStr != "" {
		enabled, err := strconv.ParseBool(mcpStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TALLY_MCP_ENABLED: %w", err)
		}
		cfg.MCP.Enabled = enabled
	}

	switch cfg.DB.Atomic {
	case "auto", "on", "off":
	default:
		return Config{}, fmt.Errorf("invalid db.atomic %q: must be auto, on, or off", cfg.DB.Atomic)
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
