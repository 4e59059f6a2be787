// Package store provides the key-value persistence used for room
// admission state and form data. Values are opaque bytes; callers own
// the encoding.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
