package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors AppConfig for YAML config files. Pointer fields
// distinguish "not set" from an explicit zero, so a file only overrides
// what it names.
type FileConfig struct {
	Host          *string         `yaml:"host"`
	Port          *int            `yaml:"port"`
	DataDir       *string         `yaml:"data_dir"`
	DBURL         *string         `yaml:"db_url"`
	DBAutoMigrate *bool           `yaml:"db_auto_migrate"`
	LogLevel      *string         `yaml:"log_level"`
	LogFormat     *string         `yaml:"log_format"`
	APIKeys       []string        `yaml:"api_keys"`
	Concurrency   *int            `yaml:"concurrency"`
	Operations    *OperationsFile `yaml:"operations"`
	History       *HistoryFile    `yaml:"history"`
	Reporting     *ReportingFile  `yaml:"reporting"`
}

// OperationsFile holds file configuration for the operation registry.
type OperationsFile struct {
	RetentionSeconds     *float64 `yaml:"retention_seconds"`
	SweepIntervalSeconds *float64 `yaml:"sweep_interval_seconds"`
}

// HistoryFile holds file configuration for the history archive.
type HistoryFile struct {
	Enabled              *bool    `yaml:"enabled"`
	RetentionSeconds     *float64 `yaml:"retention_seconds"`
	SweepIntervalSeconds *float64 `yaml:"sweep_interval_seconds"`
}

// ReportingFile holds file configuration for progress reporting.
type ReportingFile struct {
	LogTimeIntervalSeconds *float64 `yaml:"log_time_interval_seconds"`
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Options converts the set fields into AppConfig options.
func (f FileConfig) Options() []AppConfigOption {
	var opts []AppConfigOption

	if f.Host != nil {
		opts = append(opts, WithHost(*f.Host))
	}
	if f.Port != nil {
		opts = append(opts, WithPort(*f.Port))
	}
	if f.DataDir != nil {
		opts = append(opts, WithDataDir(*f.DataDir))
	}
	if f.DBURL != nil {
		opts = append(opts, WithDBURL(*f.DBURL))
	}
	if f.DBAutoMigrate != nil {
		opts = append(opts, WithDBAutoMigrate(*f.DBAutoMigrate))
	}
	if f.LogLevel != nil {
		opts = append(opts, WithLogLevel(*f.LogLevel))
	}
	if f.LogFormat != nil {
		opts = append(opts, WithLogFormat(parseLogFormat(*f.LogFormat)))
	}
	if f.APIKeys != nil {
		opts = append(opts, WithAPIKeys(f.APIKeys))
	}
	if f.Concurrency != nil {
		opts = append(opts, WithConcurrency(*f.Concurrency))
	}
	if f.Operations != nil {
		section := *f.Operations
		opts = append(opts, func(c *AppConfig) {
			cfg := c.operations
			if section.RetentionSeconds != nil {
				cfg = cfg.WithRetentionSeconds(*section.RetentionSeconds)
			}
			if section.SweepIntervalSeconds != nil {
				cfg = cfg.WithSweepIntervalSeconds(*section.SweepIntervalSeconds)
			}
			c.operations = cfg
		})
	}
	if f.History != nil {
		section := *f.History
		opts = append(opts, func(c *AppConfig) {
			cfg := c.history
			if section.Enabled != nil {
				cfg = cfg.WithEnabled(*section.Enabled)
			}
			if section.RetentionSeconds != nil {
				cfg = cfg.WithRetentionSeconds(*section.RetentionSeconds)
			}
			if section.SweepIntervalSeconds != nil {
				cfg = cfg.WithSweepIntervalSeconds(*section.SweepIntervalSeconds)
			}
			c.history = cfg
		})
	}
	if f.Reporting != nil {
		section := *f.Reporting
		opts = append(opts, func(c *AppConfig) {
			if section.LogTimeIntervalSeconds != nil {
				interval := time.Duration(*section.LogTimeIntervalSeconds * float64(time.Second))
				c.reporting = c.reporting.WithLogTimeInterval(interval)
			}
		})
	}

	return opts
}
