// Package store provides the local cache of movie listings.
package store

import (
	"context"
	"errors"

	"github.com/marco/moviebrowser/internal/catalog"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// LocalStore defines the persistent movie cache.
type LocalStore interface {
	// Insert upserts movies by ID. A later movie with the same ID replaces
	// an earlier one, including one already stored.
	Insert(ctx context.Context, movies []catalog.Movie) error

	// Movies returns the movies cached for page in insertion order.
	// An empty, non-nil slice is returned when nothing matches.
	Movies(ctx context.Context, page int) ([]catalog.Movie, error)

	// DeleteAll removes every cached movie.
	DeleteAll(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
