// Package locker serializes store access across goroutines and processes
// through an advisory lock file. The lock is flock(2) based, so a crashed
// holder releases it with its file descriptor; the bounded wait only ever
// covers live contention.
package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

var ErrLockTimeout = errors.New("store lock not acquired within timeout")

const retryInterval = 100 * time.Millisecond

// FileLock guards a shared store behind a named advisory lock file.
type FileLock struct {
	path    string
	timeout time.Duration
}

func New(path string, timeout time.Duration) *FileLock {
	return &FileLock{path: path, timeout: timeout}
}

// WithLock runs fn while holding the lock. It waits at most the configured
// timeout and fails with ErrLockTimeout instead of proceeding
// unsynchronized.
func (l *FileLock) WithLock(fn func() error) error {
	guard := flock.New(l.path)

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	locked, err := guard.TryLockContext(ctx, retryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, l.path)
		}
		return fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLockTimeout, l.path)
	}
	defer guard.Unlock()

	return fn()
}
