package ledger

import (
	"errors"
	"testing"

	"raporty/internal/timeutil"
	"raporty/worklog"
)

func TestCheckOverlapAgainstPending(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	// Entries staged in a session are checked before anything is durable.
	pending := []worklog.Interval{
		{Start: "08:00", End: "10:00"},
		{Start: "12:00", End: "13:00"},
	}

	hasConflict, conflicts, err := l.CheckOverlap(42, day, "09:30", "12:30", "", pending)
	if err != nil {
		t.Fatalf("check overlap: %v", err)
	}
	if !hasConflict || len(conflicts) != 2 {
		t.Fatalf("expected both pending conflicts, got %v", conflicts)
	}

	// Touching endpoints are not conflicts.
	hasConflict, conflicts, err = l.CheckOverlap(42, day, "10:00", "12:00", "", pending)
	if err != nil {
		t.Fatalf("check overlap: %v", err)
	}
	if hasConflict {
		t.Fatalf("touching intervals reported as conflict: %v", conflicts)
	}
}

func TestCheckOverlapMergesPendingAndStored(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	if err := l.AppendEntries(42, day, "Anna", []worklog.Draft{
		{Place: "Office", Start: "08:00", End: "09:00"},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	pending := []worklog.Interval{{Start: "10:00", End: "11:00"}}
	hasConflict, conflicts, err := l.CheckOverlap(42, day, "08:30", "10:30", "", pending)
	if err != nil {
		t.Fatalf("check overlap: %v", err)
	}
	if !hasConflict || len(conflicts) != 2 {
		t.Fatalf("expected pending and stored conflicts, got %v", conflicts)
	}
}

func TestCheckOverlapSkipsExcludedEntry(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	if err := l.AppendEntries(42, day, "Anna", []worklog.Draft{
		{Place: "Office", Start: "08:00", End: "10:00"},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Re-validating an edit must not flag the entry against itself.
	hasConflict, conflicts, err := l.CheckOverlap(42, day, "08:30", "09:30", "42_01.06.2025_1", nil)
	if err != nil {
		t.Fatalf("check overlap: %v", err)
	}
	if hasConflict {
		t.Fatalf("entry conflicts with itself: %v", conflicts)
	}
}

func TestCheckOverlapIgnoresOtherUsersAndIncompleteRows(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	day := "01.06.2025"

	if err := l.AppendEntries(7, day, "Piotr", []worklog.Draft{
		{Place: "Site", Start: "08:00", End: "10:00"},
	}); err != nil {
		t.Fatalf("append other user: %v", err)
	}
	if err := l.AppendEntries(42, day, "Anna", []worklog.Draft{
		{Place: "Office", Start: "", End: ""},
	}); err != nil {
		t.Fatalf("append incomplete: %v", err)
	}

	hasConflict, conflicts, err := l.CheckOverlap(42, day, "08:00", "10:00", "", nil)
	if err != nil {
		t.Fatalf("check overlap: %v", err)
	}
	if hasConflict {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
}

func TestCheckOverlapRejectsMalformedCandidate(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t)
	if _, _, err := l.CheckOverlap(42, "01.06.2025", "8am", "10:00", "", nil); !errors.Is(err, timeutil.ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}
}
