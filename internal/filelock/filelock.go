// Package filelock serializes writers to the on-disk board store across
// processes with an advisory lock file.
package filelock

import (
	"errors"
	"fmt"
	"os"
)

const lockFileMode = 0o600

// ErrLocked is returned by TryLock when another handle holds the lock.
var ErrLocked = errors.New("lock held by another process")

// Lock blocks until it holds an exclusive lock on path, creating the lock
// file if needed. Call the returned func to release it.
func Lock(path string) (unlock func() error, err error) {
	return acquire(path, true)
}

// TryLock is Lock without blocking; it returns ErrLocked when contended.
func TryLock(path string) (unlock func() error, err error) {
	return acquire(path, false)
}

// With runs fn while holding the lock on path.
func With(path string, fn func() error) (err error) {
	unlock, err := Lock(path)
	if err != nil {
		return fmt.Errorf("acquiring store lock: %w", err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("releasing store lock: %w", uerr)
		}
	}()
	return fn()
}

func acquire(path string, block bool) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // path built by the store
	if err != nil {
		return nil, err
	}
	if err := lockFile(f, block); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() error {
		return errors.Join(unlockFile(f), f.Close())
	}, nil
}
