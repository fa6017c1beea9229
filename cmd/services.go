package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"raporty/config"
	"raporty/internal/locker"
	"raporty/internal/timeutil"
	"raporty/ledger"
	"raporty/output"
	"raporty/presets"
	"raporty/storage"
	"raporty/upload"
)

// services wires the core components from the active configuration. Each
// command builds the set once per invocation; there is no shared state
// beyond the store files themselves.
type services struct {
	cfg      *config.Config
	ledger   *ledger.Ledger
	presets  *presets.Store
	exporter *output.MonthExporter
}

func buildServices() (*services, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.Storage.DataDir, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	lock := locker.New(cfg.LockPath(), cfg.LockTimeout())
	backups := storage.NewBackupKeeper(cfg.BackupDir(), cfg.Storage.BackupKeep, logger)

	uploader, err := selectUploader(cfg)
	if err != nil {
		return nil, err
	}

	return &services{
		cfg: cfg,
		ledger: ledger.New(ledger.Options{
			StorePath: cfg.StorePath(),
			Lock:      lock,
			Backups:   backups,
			Uploader:  uploader,
			Logger:    logger,
		}),
		presets:  presets.NewStore(cfg.PresetsPath(), lock, logger),
		exporter: output.NewMonthExporter(cfg.StorePath(), cfg.Storage.DataDir, lock),
	}, nil
}

// selectUploader picks the SharePoint uploader only when the optional
// block is complete, the no-op variant otherwise.
func selectUploader(cfg *config.Config) (upload.Uploader, error) {
	if !cfg.SharePoint.Configured() {
		return upload.Noop{}, nil
	}
	return upload.NewSharePoint(upload.SharePointConfig{
		SiteURL:      cfg.SharePoint.SiteURL,
		DocLib:       cfg.SharePoint.DocLib,
		ClientID:     cfg.SharePoint.ClientID,
		ClientSecret: cfg.SharePoint.ClientSecret,
	})
}

// validateInterval checks clock format and strict ordering before any
// entry reaches the ledger.
func validateInterval(start, end string) error {
	startClock, err := timeutil.ParseClock(start)
	if err != nil {
		return err
	}
	endClock, err := timeutil.ParseClock(end)
	if err != nil {
		return err
	}
	if startClock.Minutes() >= endClock.Minutes() {
		return fmt.Errorf("start %s must be before end %s", start, end)
	}
	return nil
}
