package archive

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("not found")

// Store persists records.
type Store interface {
	// Put inserts or replaces r.
	Put(ctx context.Context, r *Record) error
	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// FindByFingerprint returns the record with the given fingerprint, or
	// ErrNotFound.
	FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error)
	// List returns all records without blobs, newest first.
	List(ctx context.Context) ([]Record, error)
	// Delete removes the record with id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	Close() error
}
