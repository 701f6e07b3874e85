package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"memwatch/internal/models"
)

// Config holds all memwatch configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Capture  CaptureConfig  `yaml:"capture"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Report   ReportConfig   `yaml:"report"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type CaptureConfig struct {
	MaxSnapshots     int  `yaml:"max_snapshots"`
	AutoDeleteOldest bool `yaml:"auto_delete_oldest"`
}

type ScheduleConfig struct {
	Interval string `yaml:"interval"`
}

type ReportConfig struct {
	MinSnapshots int    `yaml:"min_snapshots"`
	AppName      string `yaml:"app_name"`
}

type MonitorConfig struct {
	Enabled               bool `yaml:"enabled"`
	SampleIntervalSeconds int  `yaml:"sample_interval_seconds"`
}

type AuthConfig struct {
	SecretKeyFile   string `yaml:"secret_key_file"`
	TokenExpiryDays int    `yaml:"token_expiry_days"`
}

// Load reads the config file at path, applying defaults for anything
// unset. A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes and checks the configuration. Capacity is
// clamped into the legal range rather than rejected.
func (c *Config) Validate() error {
	if c.Capture.MaxSnapshots < MinCapacity {
		c.Capture.MaxSnapshots = MinCapacity
	}
	if c.Capture.MaxSnapshots > MaxCapacity {
		c.Capture.MaxSnapshots = MaxCapacity
	}

	if c.Report.MinSnapshots < 2 {
		c.Report.MinSnapshots = DefaultMinSnapshots
	}

	if c.Schedule.Interval == "" {
		c.Schedule.Interval = string(models.IntervalOff)
	}
	if _, err := models.ParseScheduleInterval(c.Schedule.Interval); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Monitor.SampleIntervalSeconds <= 0 {
		c.Monitor.SampleIntervalSeconds = DefaultSampleIntervalSeconds
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}

	if c.Auth.TokenExpiryDays <= 0 {
		c.Auth.TokenExpiryDays = DefaultTokenExpiryDays
	}

	return nil
}

// ScheduleInterval returns the validated capture cadence.
func (c *Config) ScheduleInterval() models.ScheduleInterval {
	iv, err := models.ParseScheduleInterval(c.Schedule.Interval)
	if err != nil {
		return models.IntervalOff
	}
	return iv
}
