package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"raporty/internal/locker"
	"raporty/storage"
	"raporty/worklog"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()
	return New(Options{
		StorePath: filepath.Join(dir, "reports.xlsx"),
		Lock:      locker.New(filepath.Join(dir, "reports.lock"), 5*time.Second),
		Backups:   storage.NewBackupKeeper(filepath.Join(dir, "backups"), 3, nil),
	})
}

func TestReportExistsOnMissingStore(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	exists, err := l.ReportExists(42, "01.06.2025")
	if err != nil {
		t.Fatalf("report exists: %v", err)
	}
	if exists {
		t.Fatalf("expected no report on missing store")
	}
}

func TestAppendAssignsSequences(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	first := []worklog.Draft{
		{Place: "Office", Start: "08:00", End: "10:00", Tasks: "Setup", Notes: "-"},
		{Place: "Office", Start: "10:00", End: "11:00", Tasks: "Calls", Notes: "-"},
	}
	if err := l.AppendEntries(42, day, "Anna", first); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A later batch continues the scope's sequence.
	second := []worklog.Draft{{Place: "Site", Start: "12:00", End: "13:00", Tasks: "Visit", Notes: "-"}}
	if err := l.AppendEntries(42, day, "Anna", second); err != nil {
		t.Fatalf("append second batch: %v", err)
	}

	entries, err := l.ReadEntriesForDay(42, day)
	if err != nil {
		t.Fatalf("read day: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		expected := worklog.FormatID(42, day, i+1)
		if entry.ID != expected {
			t.Fatalf("entry %d: expected id %q, got %q", i, expected, entry.ID)
		}
	}
	if entries[2].Place != "Site" {
		t.Fatalf("batch order not preserved: %+v", entries[2])
	}

	exists, err := l.ReportExists(42, day)
	if err != nil {
		t.Fatalf("report exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected report to exist")
	}

	// Other scopes stay independent.
	otherDay, err := l.ReadEntriesForDay(42, "02.06.2025")
	if err != nil {
		t.Fatalf("read other day: %v", err)
	}
	if len(otherDay) != 0 {
		t.Fatalf("expected no entries for other day, got %v", otherDay)
	}
}

func TestEntriesSurviveRestart(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "reports.xlsx")
	lock := locker.New(filepath.Join(dir, "reports.lock"), 5*time.Second)
	backups := storage.NewBackupKeeper(filepath.Join(dir, "backups"), 3, nil)

	first := New(Options{StorePath: storePath, Lock: lock, Backups: backups})
	drafts := []worklog.Draft{{Place: "Office", Start: "08:00", End: "10:00", Tasks: "Setup", Notes: "-"}}
	if err := first.AppendEntries(42, "01.06.2025", "Anna", drafts); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A fresh ledger instance simulates a process restart.
	second := New(Options{StorePath: storePath, Lock: lock, Backups: backups})
	entries, err := second.ReadEntriesForDay(42, "01.06.2025")
	if err != nil {
		t.Fatalf("read after restart: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "42_01.06.2025_1" {
		t.Fatalf("unexpected entries after restart: %+v", entries)
	}
}

func TestUpdateFieldChangesOnlyNamedField(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"
	drafts := []worklog.Draft{{Place: "Office", Start: "08:00", End: "10:00", Tasks: "Setup", Notes: "-"}}
	if err := l.AppendEntries(42, day, "Anna", drafts); err != nil {
		t.Fatalf("append: %v", err)
	}

	id := worklog.FormatID(42, day, 1)
	if err := l.UpdateField(42, day, id, "notes", "left early"); err != nil {
		t.Fatalf("update field: %v", err)
	}

	entries, err := l.ReadEntriesForDay(42, day)
	if err != nil {
		t.Fatalf("read day: %v", err)
	}
	got := entries[0]
	if got.Notes != "left early" {
		t.Fatalf("notes not updated: %+v", got)
	}
	if got.ID != id || got.Place != "Office" || got.Start != "08:00" || got.End != "10:00" || got.Tasks != "Setup" {
		t.Fatalf("update touched other fields: %+v", got)
	}
}

func TestUpdateFieldErrors(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	if err := l.UpdateField(42, day, "42_01.06.2025_1", "owner", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := l.UpdateField(42, day, "42_01.06.2025_1", "notes", "x"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound on missing store, got %v", err)
	}

	drafts := []worklog.Draft{{Place: "Office", Start: "08:00", End: "10:00"}}
	if err := l.AppendEntries(42, day, "Anna", drafts); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.UpdateField(42, day, "42_01.06.2025_9", "notes", "x"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for vanished entry, got %v", err)
	}
}

func TestConcurrentAppendsNeverReuseSequences(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			drafts := []worklog.Draft{{
				Place: fmt.Sprintf("Place %d", i),
				Start: fmt.Sprintf("%02d:00", 8+i),
				End:   fmt.Sprintf("%02d:00", 9+i),
			}}
			errs <- l.AppendEntries(42, day, "Anna", drafts)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	entries, err := l.ReadEntriesForDay(42, day)
	if err != nil {
		t.Fatalf("read day: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	seen := map[int]bool{}
	for _, entry := range entries {
		sequence, err := worklog.ParseSequence(entry.ID)
		if err != nil {
			t.Fatalf("parse sequence of %q: %v", entry.ID, err)
		}
		if seen[sequence] {
			t.Fatalf("sequence %d assigned twice", sequence)
		}
		seen[sequence] = true
	}
	for sequence := 1; sequence <= 6; sequence++ {
		if !seen[sequence] {
			t.Fatalf("sequence %d missing: %v", sequence, seen)
		}
	}
}

func TestReadEntriesForDayOrdersHandEditedIDsLast(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "reports.xlsx")
	day := "01.06.2025"

	// Write rows directly, including an id no ledger would assign.
	wb, err := storage.OpenOrCreate(storePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := wb.EnsureMonthSheet("2025-06"); err != nil {
		t.Fatalf("ensure sheet: %v", err)
	}
	for _, id := range []string{"42_01.06.2025_2", "42_01.06.2025_x", "42_01.06.2025_1"} {
		entry := worklog.Entry{ID: id, Date: day, OwnerName: "Anna", Start: "08:00", End: "09:00"}
		if err := wb.AppendEntry("2025-06", entry); err != nil {
			t.Fatalf("append %q: %v", id, err)
		}
	}
	if err := wb.Save(); err != nil {
		t.Fatalf("save store: %v", err)
	}
	wb.Close()

	l := New(Options{
		StorePath: storePath,
		Lock:      locker.New(filepath.Join(dir, "reports.lock"), 5*time.Second),
		Backups:   storage.NewBackupKeeper(filepath.Join(dir, "backups"), 3, nil),
	})
	entries, err := l.ReadEntriesForDay(42, day)
	if err != nil {
		t.Fatalf("read day: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	expected := []string{"42_01.06.2025_1", "42_01.06.2025_2", "42_01.06.2025_x"}
	for i, id := range expected {
		if entries[i].ID != id {
			t.Fatalf("position %d: expected %q, got %q", i, id, entries[i].ID)
		}
	}
}

func TestReadAllHistorySpansMonths(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	if err := l.AppendEntries(42, "30.06.2025", "Anna", []worklog.Draft{{Place: "Office", Start: "08:00", End: "10:00"}}); err != nil {
		t.Fatalf("append june: %v", err)
	}
	if err := l.AppendEntries(42, "01.07.2025", "Anna", []worklog.Draft{{Place: "Office", Start: "09:00", End: "12:00"}}); err != nil {
		t.Fatalf("append july: %v", err)
	}
	if err := l.AppendEntries(7, "01.07.2025", "Piotr", []worklog.Draft{{Place: "Site", Start: "09:00", End: "10:00"}}); err != nil {
		t.Fatalf("append other user: %v", err)
	}

	history, err := l.ReadAllHistory(42)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %+v", history)
	}
	dates := map[string]bool{}
	for _, entry := range history {
		dates[entry.Date] = true
	}
	if !dates["30.06.2025"] || !dates["01.07.2025"] {
		t.Fatalf("history missing months: %+v", history)
	}
}

type recordingUploader struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recordingUploader) Upload(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func TestUploadRunsAfterPersistAndNeverBlocksIt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	uploader := &recordingUploader{err: errors.New("network down")}
	l := New(Options{
		StorePath: filepath.Join(dir, "reports.xlsx"),
		Lock:      locker.New(filepath.Join(dir, "reports.lock"), 5*time.Second),
		Backups:   storage.NewBackupKeeper(filepath.Join(dir, "backups"), 3, nil),
		Uploader:  uploader,
	})

	drafts := []worklog.Draft{{Place: "Office", Start: "08:00", End: "10:00"}}
	if err := l.AppendEntries(42, "01.06.2025", "Anna", drafts); err != nil {
		t.Fatalf("append must succeed despite upload failure: %v", err)
	}

	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	if len(uploader.paths) != 1 {
		t.Fatalf("expected one upload attempt, got %d", len(uploader.paths))
	}
}

func TestEndToEndDay(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	if err := l.AppendEntries(42, day, "Anna", []worklog.Draft{
		{Place: "Office", Start: "08:00", End: "10:00", Tasks: "Setup", Notes: "-"},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := l.ReadEntriesForDay(42, day)
	if err != nil {
		t.Fatalf("read day: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "42_01.06.2025_1" {
		t.Fatalf("unexpected first entry: %+v", entries)
	}

	// A second overlapping entry must be reported before it is written.
	hasConflict, conflicts, err := l.CheckOverlap(42, day, "09:00", "11:00", "", nil)
	if err != nil {
		t.Fatalf("check overlap: %v", err)
	}
	if !hasConflict || len(conflicts) != 1 || conflicts[0] != (worklog.Interval{Start: "08:00", End: "10:00"}) {
		t.Fatalf("expected conflict with 08:00-10:00, got %v", conflicts)
	}

	// The caller decided to proceed anyway.
	if err := l.AppendEntries(42, day, "Anna", []worklog.Draft{
		{Place: "Office", Start: "09:00", End: "11:00", Tasks: "Meeting", Notes: "-"},
	}); err != nil {
		t.Fatalf("force append: %v", err)
	}

	if err := l.UpdateField(42, day, "42_01.06.2025_2", "start", "10:00"); err != nil {
		t.Fatalf("update start: %v", err)
	}

	hasConflict, conflicts, err = l.CheckOverlap(42, day, "10:00", "11:00", "42_01.06.2025_2", nil)
	if err != nil {
		t.Fatalf("re-check overlap: %v", err)
	}
	if hasConflict {
		t.Fatalf("expected no conflict after edit, got %v", conflicts)
	}
}
