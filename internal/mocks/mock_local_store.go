package mocks

import (
	"context"

	"github.com/marco/moviebrowser/internal/catalog"
	"github.com/marco/moviebrowser/internal/store"
)

type MockLocalStore struct {
	store.LocalStore
	InsertFunc    func(ctx context.Context, movies []catalog.Movie) error
	MoviesFunc    func(ctx context.Context, page int) ([]catalog.Movie, error)
	DeleteAllFunc func(ctx context.Context) error

	// Inserted records every batch passed to Insert.
	Inserted [][]catalog.Movie
}

func (m *MockLocalStore) Insert(ctx context.Context, movies []catalog.Movie) error {
	batch := make([]catalog.Movie, len(movies))
	copy(batch, movies)
	m.Inserted = append(m.Inserted, batch)
	if m.InsertFunc == nil {
		return nil
	}
	return m.InsertFunc(ctx, movies)
}

func (m *MockLocalStore) Movies(ctx context.Context, page int) ([]catalog.Movie, error) {
	return m.MoviesFunc(ctx, page)
}

func (m *MockLocalStore) DeleteAll(ctx context.Context) error {
	return m.DeleteAllFunc(ctx)
}

func (m *MockLocalStore) Close() error {
	return nil
}
