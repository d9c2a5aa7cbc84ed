package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration unmarshals from a Go duration string such as "5s" or "10m",
// or from an integer nanosecond count.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("parsing duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration value")
	}
	*d = Duration(n)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Source       SourceConfig  `yaml:"source"`
	Backup       BackupConfig  `yaml:"backup"`
	Lock         LockConfig    `yaml:"lock"`
	Thresholds   Thresholds    `yaml:"thresholds"`
	Notify       NotifyConfig  `yaml:"notify"`
	Protect      ProtectConfig `yaml:"protect"`
	Schedule     string        `yaml:"schedule"` // cron expression, daemon mode only
	ConfigReload ReloadConfig  `yaml:"configReload"`
	Logging      LoggingConfig `yaml:"logging"`
}

type SourceConfig struct {
	Path string `yaml:"path"`
}

type BackupConfig struct {
	Path      string `yaml:"path"`
	Prefix    string `yaml:"prefix"`    // archive name prefix
	KeepCount int    `yaml:"keepCount"` // archives to keep, 0 = keep all
}

type LockConfig struct {
	Path string `yaml:"path"`
}

type Thresholds struct {
	MaxAgeDays       int      `yaml:"maxAgeDays"`       // files strictly older are archived
	DiskAbortPercent float64  `yaml:"diskAbortPercent"` // abort above this used percentage
	ArchiveTimeout   Duration `yaml:"archiveTimeout"`   // bound on the archive phase, 0 = none
}

type NotifyConfig struct {
	To       string `yaml:"to"`
	From     string `yaml:"from"`
	SMTPHost string `yaml:"smtpHost"`
	SMTPPort int    `yaml:"smtpPort"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ProtectConfig struct {
	Enabled bool   `yaml:"enabled"`
	Unit    string `yaml:"unit"` // systemd unit stopped on disk-full, e.g. "jenkins.service"
}

type ReloadConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Method       string   `yaml:"method"`       // "auto", "poll", "fsnotify"
	PollInterval Duration `yaml:"pollInterval"` // e.g. 5s
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "console"
}

// MaxAge converts the day threshold into a duration.
func (t Thresholds) MaxAge() time.Duration {
	return time.Duration(t.MaxAgeDays) * 24 * time.Hour
}
