package ledger

import (
	"raporty/internal/timeutil"
	"raporty/worklog"
)

// CheckOverlap collects every stored or pending interval of (userID, day)
// that intersects the candidate [start, end). Pending intervals cover
// entries staged in the current session but not yet persisted; excludeID
// skips the entry being edited so it is not compared against its own prior
// state. The check is purely advisory: conflicts are reported, never
// rejected, and the caller obtains the human decision.
func (l *Ledger) CheckOverlap(userID int64, day, start, end, excludeID string, pending []worklog.Interval) (bool, []worklog.Interval, error) {
	candidateStart, err := timeutil.ParseClock(start)
	if err != nil {
		return false, nil, err
	}
	candidateEnd, err := timeutil.ParseClock(end)
	if err != nil {
		return false, nil, err
	}

	var conflicts []worklog.Interval
	for _, interval := range pending {
		if intersects(candidateStart.Minutes(), candidateEnd.Minutes(), interval.Start, interval.End) {
			conflicts = append(conflicts, interval)
		}
	}

	entries, err := l.ReadEntriesForDay(userID, day)
	if err != nil {
		return false, nil, err
	}
	for _, entry := range entries {
		if excludeID != "" && entry.ID == excludeID {
			continue
		}
		if intersects(candidateStart.Minutes(), candidateEnd.Minutes(), entry.Start, entry.End) {
			conflicts = append(conflicts, worklog.Interval{Start: entry.Start, End: entry.End})
		}
	}

	return len(conflicts) > 0, conflicts, nil
}

// intersects parses the stored interval texts and applies the half-open
// overlap rule, skipping incomplete or malformed intervals.
func intersects(candidateStart, candidateEnd int, start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	parsedStart, err := timeutil.ParseClock(start)
	if err != nil {
		return false
	}
	parsedEnd, err := timeutil.ParseClock(end)
	if err != nil {
		return false
	}
	return timeutil.Overlap(candidateStart, candidateEnd, parsedStart.Minutes(), parsedEnd.Minutes())
}
