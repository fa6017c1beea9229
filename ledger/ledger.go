// Package ledger is the append/read/update surface over the workbook
// store. Every operation runs its whole read-modify-write sequence under
// the store lock, so "read current max sequence, then append with the
// next" stays atomic across concurrent sessions and processes.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"raporty/internal/locker"
	"raporty/internal/timeutil"
	"raporty/storage"
	"raporty/upload"
	"raporty/worklog"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrUnknownField  = errors.New("unknown entry field")
)

const uploadTimeout = 60 * time.Second

// Ledger owns WorkEntry persistence. It is stateless between calls; all
// state lives in the store file.
type Ledger struct {
	storePath string
	lock      *locker.FileLock
	backups   *storage.BackupKeeper
	uploader  upload.Uploader
	logger    *slog.Logger
}

type Options struct {
	StorePath string
	Lock      *locker.FileLock
	Backups   *storage.BackupKeeper
	Uploader  upload.Uploader // nil selects the no-op variant
	Logger    *slog.Logger
}

func New(opts Options) *Ledger {
	uploader := opts.Uploader
	if uploader == nil {
		uploader = upload.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		storePath: opts.StorePath,
		lock:      opts.Lock,
		backups:   opts.Backups,
		uploader:  uploader,
		logger:    logger,
	}
}

// ReportExists reports whether any entry exists for (userID, day). A
// missing store or month sheet is a valid absent state, not an error.
func (l *Ledger) ReportExists(userID int64, day string) (bool, error) {
	monthKey, err := timeutil.MonthKey(day)
	if err != nil {
		return false, err
	}
	if !l.storeOnDisk() {
		return false, nil
	}

	exists := false
	err = l.lock.WithLock(func() error {
		wb, err := storage.OpenOrCreate(l.storePath)
		if err != nil {
			return err
		}
		defer wb.Close()

		rows, err := wb.Rows(monthKey)
		if errors.Is(err, storage.ErrSheetNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		prefix := worklog.IDPrefix(userID, day)
		for _, row := range dataRows(rows) {
			if len(row) > 0 && strings.HasPrefix(row[0], prefix) {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

// AppendEntries assigns ids continuing the scope's sequence, one increment
// per draft in caller order, and persists the whole batch atomically.
func (l *Ledger) AppendEntries(userID int64, day, ownerName string, drafts []worklog.Draft) error {
	if len(drafts) == 0 {
		return nil
	}
	monthKey, err := timeutil.MonthKey(day)
	if err != nil {
		return err
	}

	err = l.lock.WithLock(func() error {
		wb, err := storage.OpenOrCreate(l.storePath)
		if err != nil {
			return err
		}
		defer wb.Close()

		if err := wb.EnsureMonthSheet(monthKey); err != nil {
			return err
		}

		rows, err := wb.Rows(monthKey)
		if err != nil {
			return err
		}
		prefix := worklog.IDPrefix(userID, day)
		var scoped []string
		for _, row := range dataRows(rows) {
			if len(row) > 0 && strings.HasPrefix(row[0], prefix) {
				scoped = append(scoped, row[0])
			}
		}

		next := worklog.NextSequence(scoped)
		for offset, draft := range drafts {
			entry := worklog.Entry{
				ID:        worklog.FormatID(userID, day, next+offset),
				Date:      day,
				OwnerName: ownerName,
				Place:     draft.Place,
				Start:     draft.Start,
				End:       draft.End,
				Tasks:     draft.Tasks,
				Notes:     draft.Notes,
			}
			if err := wb.AppendEntry(monthKey, entry); err != nil {
				return err
			}
		}

		l.backups.Backup(l.storePath)
		return wb.Save()
	})
	if err != nil {
		return err
	}

	l.uploadBestEffort()
	return nil
}

// ReadEntriesForDay returns the entries for (userID, day) sorted ascending
// by sequence. Absent store, sheet, or scope all yield an empty slice.
func (l *Ledger) ReadEntriesForDay(userID int64, day string) ([]worklog.Entry, error) {
	monthKey, err := timeutil.MonthKey(day)
	if err != nil {
		return nil, err
	}
	entries := []worklog.Entry{}
	if !l.storeOnDisk() {
		return entries, nil
	}

	err = l.lock.WithLock(func() error {
		wb, err := storage.OpenOrCreate(l.storePath)
		if err != nil {
			return err
		}
		defer wb.Close()

		rows, err := wb.Rows(monthKey)
		if errors.Is(err, storage.ErrSheetNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		prefix := worklog.IDPrefix(userID, day)
		for _, row := range dataRows(rows) {
			if len(row) > 0 && strings.HasPrefix(row[0], prefix) {
				entries = append(entries, storage.EntryFromRow(row))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ids the ledger never assigned (hand-edited workbooks) keep their
	// sheet order after the well-formed entries.
	sort.SliceStable(entries, func(i, j int) bool {
		a, errA := worklog.ParseSequence(entries[i].ID)
		b, errB := worklog.ParseSequence(entries[j].ID)
		if errA != nil || errB != nil {
			return errA == nil && errB != nil
		}
		return a < b
	})
	return entries, nil
}

// ReadAllHistory scans every month sheet for the user's entries. It feeds
// aggregate time computations only and carries partial fields.
func (l *Ledger) ReadAllHistory(userID int64) ([]worklog.HistoryEntry, error) {
	history := []worklog.HistoryEntry{}
	if !l.storeOnDisk() {
		return history, nil
	}

	err := l.lock.WithLock(func() error {
		wb, err := storage.OpenOrCreate(l.storePath)
		if err != nil {
			return err
		}
		defer wb.Close()

		prefix := worklog.UserPrefix(userID)
		for _, sheet := range wb.SheetList() {
			rows, err := wb.Rows(sheet)
			if err != nil {
				continue
			}
			for _, row := range dataRows(rows) {
				if len(row) == 0 || !strings.HasPrefix(row[0], prefix) {
					continue
				}
				entry := storage.EntryFromRow(row)
				history = append(history, worklog.HistoryEntry{
					ID:    entry.ID,
					Date:  entry.Date,
					Start: entry.Start,
					End:   entry.End,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// UpdateField overwrites exactly one editable field of one entry, located
// by id. It never renumbers and never touches other cells.
func (l *Ledger) UpdateField(userID int64, day, entryID, field, value string) error {
	if _, ok := storage.FieldColumn(field); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	monthKey, err := timeutil.MonthKey(day)
	if err != nil {
		return err
	}
	if !l.storeOnDisk() {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}

	err = l.lock.WithLock(func() error {
		wb, err := storage.OpenOrCreate(l.storePath)
		if err != nil {
			return err
		}
		defer wb.Close()

		row, err := wb.FindRowByID(monthKey, entryID)
		if errors.Is(err, storage.ErrSheetNotFound) || errors.Is(err, storage.ErrRowNotFound) {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
		}
		if err != nil {
			return err
		}

		if err := wb.SetField(monthKey, row, field, value); err != nil {
			return err
		}

		l.backups.Backup(l.storePath)
		return wb.Save()
	})
	if err != nil {
		return err
	}

	l.uploadBestEffort()
	return nil
}

// dataRows strips the header row, tolerating sheets that are still empty.
func dataRows(rows [][]string) [][]string {
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

func (l *Ledger) storeOnDisk() bool {
	_, err := os.Stat(l.storePath)
	return err == nil
}

// uploadBestEffort ships the durable file after a successful persist.
// Failures are logged, never surfaced: saving a report must not depend on
// optional housekeeping.
func (l *Ledger) uploadBestEffort() {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if err := l.uploader.Upload(ctx, l.storePath); err != nil {
		l.logger.Warn("store upload failed", "error", err)
	}
}
