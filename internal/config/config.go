package config

import (
	"errors"
	"fmt"

	"github.com/jchantrell/icudata/internal/cache"
	"github.com/spf13/viper"
)

type Config struct {
	Database       string   `mapstructure:"database"`
	Formats        []string `mapstructure:"formats"`
	Legacy         bool     `mapstructure:"legacy"`
	Workers        int      `mapstructure:"workers"`
	BatchSize      int      `mapstructure:"batch_size"`
	MinDataVersion string   `mapstructure:"min_data_version"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`
	Output         string   `mapstructure:"output"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	state := cache.New()

	v := viper.New()
	v.SetDefault("database", state.CatalogPath())
	v.SetDefault("formats", []string{})
	v.SetDefault("legacy", false)
	v.SetDefault("workers", 0)
	v.SetDefault("batch_size", 500)
	v.SetDefault("min_data_version", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(state.Dir())
		v.AddConfigPath(".")
		v.SetConfigName("icudata")
		v.SetConfigType("yaml")
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field. It is run again by the CLI after flag
// overrides are applied.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("invalid database configuration: path cannot be empty")
	}
	if _, err := ParseFormats(c.Formats); err != nil {
		return fmt.Errorf("invalid format configuration: %w", err)
	}
	if err := validateOutput(c.Output); err != nil {
		return fmt.Errorf("invalid output configuration: %w", err)
	}
	if err := validateLogging(c.LogLevel, c.LogFormat); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers configuration: %d is negative", c.Workers)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("invalid batch_size configuration: %d is negative", c.BatchSize)
	}
	if _, err := ParseMinDataVersion(c.MinDataVersion); err != nil {
		return fmt.Errorf("invalid min_data_version configuration: %w", err)
	}
	return nil
}
