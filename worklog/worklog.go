package worklog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"raporty/internal/timeutil"
)

var ErrMalformedID = errors.New("malformed entry id")

// Entry is one contiguous block of work for one user on one calendar day,
// as stored in the month sheet.
type Entry struct {
	ID        string
	Date      string // dd.mm.yyyy
	OwnerName string
	Place     string
	Start     string // HH:MM
	End       string // HH:MM
	Tasks     string
	Notes     string
}

// Draft is an entry before the ledger has assigned its id.
type Draft struct {
	Place string
	Start string
	End   string
	Tasks string
	Notes string
}

// Interval is a start/end pair reported by the overlap check.
type Interval struct {
	Start string
	End   string
}

// HistoryEntry is the partial projection returned by all-history scans.
// It carries only what aggregate time computations need.
type HistoryEntry struct {
	ID    string
	Date  string
	Start string
	End   string
}

// FormatID encodes the composite entry key {userID}_{day}_{sequence}.
// The day must already be canonical dd.mm.yyyy text.
func FormatID(userID int64, day string, sequence int) string {
	return fmt.Sprintf("%d_%s_%d", userID, day, sequence)
}

// ParseSequence extracts the numeric sequence after the last underscore.
func ParseSequence(id string) (int, error) {
	pos := strings.LastIndex(id, "_")
	if pos < 0 || pos == len(id)-1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	sequence, err := strconv.Atoi(id[pos+1:])
	if err != nil || sequence <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return sequence, nil
}

// NextSequence returns 1 for an empty scope, otherwise one past the highest
// existing sequence. Malformed ids are skipped rather than failing the
// whole scope.
func NextSequence(ids []string) int {
	highest := 0
	for _, id := range ids {
		sequence, err := ParseSequence(id)
		if err != nil {
			continue
		}
		if sequence > highest {
			highest = sequence
		}
	}
	return highest + 1
}

// IDPrefix is the scope prefix shared by all entries of one (user, day).
func IDPrefix(userID int64, day string) string {
	return fmt.Sprintf("%d_%s_", userID, day)
}

// UserPrefix is the scope prefix shared by all entries of one user.
func UserPrefix(userID int64) string {
	return fmt.Sprintf("%d_", userID)
}

var tagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// ExtractTags returns the #tag tokens embedded in free task text.
func ExtractTags(text string) []string {
	return tagPattern.FindAllString(text, -1)
}

// DailyMinutes sums end-start over entries that have both times set.
func DailyMinutes(entries []Entry) int {
	total := 0
	for _, entry := range entries {
		if entry.Start == "" || entry.End == "" {
			continue
		}
		start, err := timeutil.ParseClock(entry.Start)
		if err != nil {
			continue
		}
		end, err := timeutil.ParseClock(entry.End)
		if err != nil {
			continue
		}
		total += end.Minutes() - start.Minutes()
	}
	return total
}
