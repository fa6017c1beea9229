package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}

	if cfg.Storage.DataDir != "." {
		t.Fatalf("unexpected data dir: %q", cfg.Storage.DataDir)
	}
	if cfg.Storage.BackupKeep != 20 {
		t.Fatalf("unexpected backup keep: %d", cfg.Storage.BackupKeep)
	}
	if cfg.LockTimeout().Seconds() != 30 {
		t.Fatalf("unexpected lock timeout: %v", cfg.LockTimeout())
	}
	if cfg.SharePoint.Configured() {
		t.Fatalf("empty sharepoint block must not count as configured")
	}
}

func TestValidateYAMLContent_RejectsPartialSharePoint(t *testing.T) {
	t.Parallel()

	content := []byte(`storage:
  data_dir: "/data"
sharepoint:
  site_url: "https://contoso.example/sites/reports"
  doc_lib: "Shared Documents"
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for partial sharepoint block")
	}
	if !strings.Contains(err.Error(), "sharepoint") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_CompleteSharePoint(t *testing.T) {
	t.Parallel()

	content := []byte(`storage:
  data_dir: "/data"
sharepoint:
  site_url: "https://contoso.example/sites/reports"
  doc_lib: "Shared Documents"
  client_id: "id"
  client_secret: "secret"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if !cfg.SharePoint.Configured() {
		t.Fatalf("expected sharepoint to be configured")
	}
}

func TestValidateYAMLContent_RejectsBadLockTimeout(t *testing.T) {
	t.Parallel()

	content := []byte(`storage:
  data_dir: "/data"
  lock_timeout_seconds: 0
`)

	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for zero lock timeout")
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Parallel()

	cfg := &Config{Storage: StorageConfig{DataDir: "/data"}}
	if cfg.StorePath() != "/data/reports.xlsx" {
		t.Fatalf("unexpected store path: %q", cfg.StorePath())
	}
	if cfg.PresetsPath() != "/data/presets.json" {
		t.Fatalf("unexpected presets path: %q", cfg.PresetsPath())
	}
	if cfg.LockPath() != "/data/reports.lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.BackupDir() != "/data/backups" {
		t.Fatalf("unexpected backup dir: %q", cfg.BackupDir())
	}
}

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	open := &Config{}
	if !open.IsAdmin(42) {
		t.Fatalf("empty admin list must allow everyone")
	}

	restricted := &Config{Export: ExportConfig{AdminIDs: []int64{1, 2}}}
	if restricted.IsAdmin(42) {
		t.Fatalf("expected 42 to be rejected")
	}
	if !restricted.IsAdmin(2) {
		t.Fatalf("expected 2 to be allowed")
	}
}
