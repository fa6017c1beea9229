package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyStorageDataDir     = "storage.data_dir"
	KeyStorageBackupKeep  = "storage.backup_keep"
	KeyStorageLockTimeout = "storage.lock_timeout_seconds"
	KeyExportAdminIDs     = "export.admin_ids"
	KeySharePointSiteURL  = "sharepoint.site_url"
	KeySharePointDocLib   = "sharepoint.doc_lib"
	KeySharePointClientID = "sharepoint.client_id"
	KeySharePointSecret   = "sharepoint.client_secret"
)

const (
	storeFileName   = "reports.xlsx"
	presetsFileName = "presets.json"
	lockFileName    = "reports.lock"
	backupDirName   = "backups"
)

type Config struct {
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Export     ExportConfig     `mapstructure:"export"`
	SharePoint SharePointConfig `mapstructure:"sharepoint"`
}

type StorageConfig struct {
	DataDir            string `mapstructure:"data_dir" validate:"required"`
	BackupKeep         int    `mapstructure:"backup_keep" validate:"gte=1"`
	LockTimeoutSeconds int    `mapstructure:"lock_timeout_seconds" validate:"gte=1"`
}

type ExportConfig struct {
	// AdminIDs gates the all-users export; an empty list allows everyone.
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

type SharePointConfig struct {
	SiteURL      string `mapstructure:"site_url" validate:"omitempty,url"`
	DocLib       string `mapstructure:"doc_lib"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Configured reports whether the optional upload block is complete. A
// partial block disables upload rather than failing at call sites.
func (s SharePointConfig) Configured() bool {
	return strings.TrimSpace(s.SiteURL) != "" &&
		strings.TrimSpace(s.DocLib) != "" &&
		strings.TrimSpace(s.ClientID) != "" &&
		strings.TrimSpace(s.ClientSecret) != ""
}

func (c *Config) StorePath() string {
	return filepath.Join(c.Storage.DataDir, storeFileName)
}

func (c *Config) PresetsPath() string {
	return filepath.Join(c.Storage.DataDir, presetsFileName)
}

func (c *Config) LockPath() string {
	return filepath.Join(c.Storage.DataDir, lockFileName)
}

func (c *Config) BackupDir() string {
	return filepath.Join(c.Storage.DataDir, backupDirName)
}

func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Storage.LockTimeoutSeconds) * time.Second
}

// IsAdmin reports whether userID may run the all-users export.
func (c *Config) IsAdmin(userID int64) bool {
	if len(c.Export.AdminIDs) == 0 {
		return true
	}
	for _, id := range c.Export.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# raporty configuration
storage:
  data_dir: "."
  backup_keep: 20
  lock_timeout_seconds: 30

export:
  # Empty list allows every user to run the all-users export.
  admin_ids: []

# Optional: complete all four values to enable best-effort store upload.
sharepoint:
  site_url: ""
  doc_lib: ""
  client_id: ""
  client_secret: ""
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSharePoint(cfg.SharePoint); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageDataDir, ".")
	v.SetDefault(KeyStorageBackupKeep, 20)
	v.SetDefault(KeyStorageLockTimeout, 30)
	v.SetDefault(KeyExportAdminIDs, []int64{})
}

func validateSharePoint(cfg SharePointConfig) error {
	values := []string{cfg.SiteURL, cfg.DocLib, cfg.ClientID, cfg.ClientSecret}
	filled := 0
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			filled++
		}
	}
	if filled != 0 && filled != len(values) {
		return fmt.Errorf(
			"validation failed: sharepoint requires site_url, doc_lib, client_id and client_secret together",
		)
	}
	return nil
}
