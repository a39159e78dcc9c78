package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/osakit/osabridge/errors"
)

// Config holds all library configuration.
type Config struct {
	Executor ExecutorConfig `yaml:"executor"`
	App      AppConfig      `yaml:"app"`
	Logging  LogConfig      `yaml:"logging"`
}

// ExecutorConfig selects and parameterizes the executor. When Command
// is set, the subprocess executor drives that helper; otherwise the
// in-process VM is used and Script seeds it.
type ExecutorConfig struct {
	Command string   `envconfig:"EXECUTOR_COMMAND" yaml:"command"`
	Args    []string `envconfig:"EXECUTOR_ARGS" yaml:"args"`
	Script  string   `envconfig:"EXECUTOR_SCRIPT" yaml:"script"`
}

// AppConfig names the default application to connect to.
type AppConfig struct {
	Name string `envconfig:"APP_NAME" yaml:"name"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development"`
}

// Load loads configuration from OSABRIDGE_-prefixed environment
// variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("osabridge", &cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "load environment")
	}
	return &cfg, nil
}

// LoadFile reads a YAML configuration file over the defaults.
// Environment variables do not apply; use Load for env-driven setups.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse config file")
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from the environment or returns
// the default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
