package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	os.Setenv("JLA_TEST_LOGS", "/var/log/jenkins")
	t.Cleanup(func() { os.Unsetenv("JLA_TEST_LOGS") })

	path := writeConfig(t, `
source:
  path: $(JLA_TEST_LOGS)
backup:
  path: /backup/jenkins_logs
lock:
  path: /tmp/jenkins_backup.lock
notify:
  to: admin@example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Source.Path != "/var/log/jenkins" {
		t.Fatalf("env placeholder not expanded: %q", cfg.Source.Path)
	}
	if cfg.Backup.Prefix != "jenkins_logs" {
		t.Fatalf("prefix default missing: %q", cfg.Backup.Prefix)
	}
	if cfg.Thresholds.MaxAgeDays != 7 {
		t.Fatalf("age default missing: %d", cfg.Thresholds.MaxAgeDays)
	}
	if cfg.Thresholds.DiskAbortPercent != 90 {
		t.Fatalf("disk default missing: %v", cfg.Thresholds.DiskAbortPercent)
	}
	if cfg.Thresholds.MaxAge() != 7*24*time.Hour {
		t.Fatalf("MaxAge conversion wrong: %v", cfg.Thresholds.MaxAge())
	}
	if cfg.ConfigReload.Method != "auto" || cfg.ConfigReload.PollInterval.Std() != 5*time.Second {
		t.Fatalf("reload defaults missing: %+v", cfg.ConfigReload)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging default missing: %q", cfg.Logging.Level)
	}
}

func TestLoadValidates(t *testing.T) {
	cases := map[string]string{
		"missing source": `
backup: {path: /b}
lock: {path: /l}
`,
		"missing backup": `
source: {path: /s}
lock: {path: /l}
`,
		"missing lock": `
source: {path: /s}
backup: {path: /b}
`,
		"bad percent": `
source: {path: /s}
backup: {path: /b}
lock: {path: /l}
thresholds: {diskAbortPercent: 120}
`,
		"protect without unit": `
source: {path: /s}
backup: {path: /b}
lock: {path: /l}
protect: {enabled: true}
`,
	}

	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected a validation error", name)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
source: {path: /var/log/jenkins}
backup: {path: /backup, prefix: nightly, keepCount: 14}
lock: {path: /tmp/x.lock}
thresholds: {maxAgeDays: 30, diskAbortPercent: 80, archiveTimeout: 10m}
protect: {enabled: true, unit: jenkins.service}
schedule: "0 2 * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backup.Prefix != "nightly" || cfg.Backup.KeepCount != 14 {
		t.Fatalf("backup overrides lost: %+v", cfg.Backup)
	}
	if cfg.Thresholds.MaxAgeDays != 30 || cfg.Thresholds.ArchiveTimeout.Std() != 10*time.Minute {
		t.Fatalf("threshold overrides lost: %+v", cfg.Thresholds)
	}
	if cfg.Schedule != "0 2 * * *" {
		t.Fatalf("schedule lost: %q", cfg.Schedule)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
