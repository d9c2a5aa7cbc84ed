package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

func Load(path string) (*Config, error) {
	// read raw YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	// unmarshal into struct
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backup.Prefix == "" {
		c.Backup.Prefix = "jenkins_logs"
	}
	if c.Thresholds.MaxAgeDays == 0 {
		c.Thresholds.MaxAgeDays = 7
	}
	if c.Thresholds.DiskAbortPercent == 0 {
		c.Thresholds.DiskAbortPercent = 90
	}
	if c.ConfigReload.Method == "" {
		c.ConfigReload.Method = "auto"
	}
	if c.ConfigReload.PollInterval == 0 {
		c.ConfigReload.PollInterval = Duration(5 * time.Second)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

func (c *Config) validate() error {
	if c.Source.Path == "" {
		return fmt.Errorf("source.path is required")
	}
	if c.Backup.Path == "" {
		return fmt.Errorf("backup.path is required")
	}
	if c.Lock.Path == "" {
		return fmt.Errorf("lock.path is required")
	}
	if c.Thresholds.MaxAgeDays < 0 {
		return fmt.Errorf("thresholds.maxAgeDays must be positive, got %d", c.Thresholds.MaxAgeDays)
	}
	if c.Thresholds.DiskAbortPercent <= 0 || c.Thresholds.DiskAbortPercent > 100 {
		return fmt.Errorf("thresholds.diskAbortPercent must be in (0,100], got %v", c.Thresholds.DiskAbortPercent)
	}
	if c.Protect.Enabled && c.Protect.Unit == "" {
		return fmt.Errorf("protect.unit is required when protect is enabled")
	}
	return nil
}
