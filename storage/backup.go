package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupTimestampLayout = "20060102_150405"

// BackupKeeper retains timestamped copies of the durable store file,
// pruning the oldest beyond the retention cap. Backups are best effort:
// failures are logged and never block saving new data.
type BackupKeeper struct {
	dir    string
	keep   int
	logger *slog.Logger
}

func NewBackupKeeper(dir string, keep int, logger *slog.Logger) *BackupKeeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupKeeper{dir: dir, keep: keep, logger: logger}
}

// Backup copies the current durable file aside. Call it before the new
// file replaces the old one.
func (b *BackupKeeper) Backup(srcPath string) {
	if _, err := os.Stat(srcPath); err != nil {
		return // nothing durable yet
	}

	prefix := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)) + "_"
	name := prefix + time.Now().Format(backupTimestampLayout) + filepath.Ext(srcPath)

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		b.logger.Warn("backup failed", "error", err)
		return
	}
	if err := copyFile(srcPath, filepath.Join(b.dir, name)); err != nil {
		b.logger.Warn("backup failed", "error", err)
		return
	}

	b.prune(prefix, filepath.Ext(srcPath))
}

func (b *BackupKeeper) prune(prefix, ext string) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		b.logger.Warn("backup pruning failed", "error", err)
		return
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
	}
	if len(names) <= b.keep {
		return
	}

	// Timestamp suffixes sort lexicographically, oldest first.
	sort.Strings(names)
	for _, name := range names[:len(names)-b.keep] {
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil {
			b.logger.Warn("backup pruning failed", "file", name, "error", err)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
