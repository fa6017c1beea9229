// Package output projects month sheets into standalone export artifacts
// for the caller to stream out and delete.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"raporty/internal/locker"
	"raporty/storage"
	"raporty/worklog"
)

var ErrMonthNotFound = errors.New("month not found in store")

// MonthExporter copies one month sheet, optionally filtered to one user,
// into a fresh single-sheet workbook. The snapshot is taken under the
// store lock.
type MonthExporter struct {
	storePath string
	outDir    string
	lock      *locker.FileLock
}

func NewMonthExporter(storePath, outDir string, lock *locker.FileLock) *MonthExporter {
	return &MonthExporter{storePath: storePath, outDir: outDir, lock: lock}
}

// ExportMonth writes the artifact and returns its path. userID 0 exports
// all users; otherwise rows are filtered by the user's id prefix. A
// missing month is the ErrMonthNotFound result, not a failure.
func (e *MonthExporter) ExportMonth(monthKey string, userID int64) (string, error) {
	if _, err := os.Stat(e.storePath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMonthNotFound, monthKey)
	}

	scope := "ALL"
	prefix := ""
	if userID != 0 {
		scope = fmt.Sprintf("%d", userID)
		prefix = worklog.UserPrefix(userID)
	}
	artifactPath := filepath.Join(e.outDir, fmt.Sprintf("export_%s_%s.xlsx", monthKey, scope))

	err := e.lock.WithLock(func() error {
		wb, err := storage.OpenOrCreate(e.storePath)
		if err != nil {
			return err
		}
		defer wb.Close()

		rows, err := wb.Rows(monthKey)
		if errors.Is(err, storage.ErrSheetNotFound) {
			return fmt.Errorf("%w: %s", ErrMonthNotFound, monthKey)
		}
		if err != nil {
			return err
		}

		artifact := excelize.NewFile()
		defer artifact.Close()
		if err := artifact.SetSheetName("Sheet1", monthKey); err != nil {
			return fmt.Errorf("name artifact sheet: %w", err)
		}

		if err := writeRow(artifact, monthKey, 1, storage.Headers); err != nil {
			return err
		}
		outRow := 2
		for _, row := range dataRows(rows) {
			if len(row) == 0 || row[0] == "" {
				continue
			}
			if prefix != "" && !strings.HasPrefix(row[0], prefix) {
				continue
			}
			if err := writeRow(artifact, monthKey, outRow, padRow(row)); err != nil {
				return err
			}
			outRow++
		}

		return saveArtifact(artifact, artifactPath)
	})
	if err != nil {
		return "", err
	}
	return artifactPath, nil
}

func dataRows(rows [][]string) [][]string {
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

func writeRow(file *excelize.File, sheet string, row int, values []string) error {
	for column, value := range values {
		cell, _ := excelize.CoordinatesToCellName(column+1, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func padRow(row []string) []string {
	if len(row) >= len(storage.Headers) {
		return row[:len(storage.Headers)]
	}
	padded := make([]string, len(storage.Headers))
	copy(padded, row)
	return padded
}

func saveArtifact(file *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if err := file.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace artifact %s: %w", path, err)
	}
	return nil
}
