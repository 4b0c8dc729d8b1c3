package ioutils

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Lock when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// SessionLock is an exclusive advisory lock on a sidecar file.
type SessionLock struct {
	lock *flock.Flock
}

// Lock takes the exclusive lock at path without blocking.
//
// Parent directories are created as needed. Returns ErrLocked if another
// process already holds it. The lock is released by Unlock or when the
// process exits.
//
// Example:
//
//	lock, err := Lock("files/lib.txt.lock")
//	if errors.Is(err, ErrLocked) {
//	    // another session is open
//	}
//	defer lock.Unlock()
func Lock(path string) (*SessionLock, error) {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return &SessionLock{lock: fl}, nil
}

// Path returns the lock file path.
func (l *SessionLock) Path() string {
	if l == nil {
		return ""
	}
	return l.lock.Path()
}

// Unlock releases the lock. It is safe to call on a nil lock.
func (l *SessionLock) Unlock() error {
	if l == nil {
		return nil
	}
	return l.lock.Unlock()
}
