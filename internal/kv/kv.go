// Package kv provides the named-entry storage backends the board persists
// into. Each backend stores opaque byte blobs under short string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Well-known entry names.
const (
	TasksKey  = "tasks"
	NotesKey  = "notes"
	UserKey   = "user"
	TokenKey  = "token"
	EventsKey = "events"
)

// Sentinel errors.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrInvalidKey    = errors.New("invalid entry key")
)

// Store is the contract every storage backend implements.
type Store interface {
	// Get returns the entry's value, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the entry's value. Rejected writes wrap ErrQuotaExceeded
	// when the medium is full.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

var keyRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// ValidateKey rejects keys that are unsafe as file names or table keys.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
