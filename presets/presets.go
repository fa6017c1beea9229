// Package presets keeps per-user most-recently-used place and task texts
// in one JSON document beside the store file.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"raporty/internal/locker"
)

// maxRecent bounds each per-user list.
const maxRecent = 5

type userPresets struct {
	Places []string `json:"places"`
	Tasks  []string `json:"tasks,omitempty"`
}

type document map[string]userPresets

// Store owns the presets document. Writes go through the store lock; reads
// feed no subsequent write and stay lock-free.
type Store struct {
	path   string
	lock   *locker.FileLock
	logger *slog.Logger
}

func NewStore(path string, lock *locker.FileLock, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, lock: lock, logger: logger}
}

// RememberPlace moves place to the front of the user's list, dropping an
// earlier occurrence and truncating to the bound.
func (s *Store) RememberPlace(userID int64, place string) error {
	return s.remember(userID, place, func(u *userPresets) *[]string { return &u.Places })
}

// RecentPlaces returns the user's places, most recent first. Unknown users
// get an empty list.
func (s *Store) RecentPlaces(userID int64) ([]string, error) {
	return s.recent(userID, func(u userPresets) []string { return u.Places })
}

// RememberTask keeps task templates with the same bounded move-to-front
// behavior as places.
func (s *Store) RememberTask(userID int64, task string) error {
	return s.remember(userID, task, func(u *userPresets) *[]string { return &u.Tasks })
}

func (s *Store) RecentTasks(userID int64) ([]string, error) {
	return s.recent(userID, func(u userPresets) []string { return u.Tasks })
}

func (s *Store) remember(userID int64, value string, list func(*userPresets) *[]string) error {
	return s.lock.WithLock(func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}

		key := strconv.FormatInt(userID, 10)
		user := doc[key]
		target := list(&user)
		*target = moveToFront(*target, value)
		doc[key] = user

		return s.save(doc)
	})
}

func (s *Store) recent(userID int64, list func(userPresets) []string) ([]string, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	values := list(doc[strconv.FormatInt(userID, 10)])
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func moveToFront(values []string, value string) []string {
	result := make([]string, 0, len(values)+1)
	result = append(result, value)
	for _, existing := range values {
		if existing != value {
			result = append(result, existing)
		}
	}
	if len(result) > maxRecent {
		result = result[:maxRecent]
	}
	return result
}

func (s *Store) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document{}, nil
		}
		return nil, fmt.Errorf("read presets %s: %w", s.path, err)
	}

	// A torn or hand-edited document degrades to empty instead of wedging
	// every preset operation until someone deletes the file.
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("presets document unreadable, starting empty", "path", s.path, "error", err)
		return document{}, nil
	}
	return doc, nil
}

func (s *Store) save(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp presets: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write presets %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close presets %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace presets %s: %w", s.path, err)
	}
	return nil
}
