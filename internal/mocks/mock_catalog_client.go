package mocks

import (
	"context"
	"encoding/json"

	"github.com/marco/moviebrowser/internal/catalog"
)

type MockCatalogClient struct {
	catalog.RemoteClient
	PopularMoviesFunc     func(ctx context.Context, page int) (*catalog.DataModel, error)
	TopRatedMoviesFunc    func(ctx context.Context, page int) (*catalog.DataModel, error)
	NowPlayingMoviesFunc  func(ctx context.Context, page int) (*catalog.DataModel, error)
	UpcomingMoviesFunc    func(ctx context.Context, page int) (*catalog.DataModel, error)
	SimilarMoviesFunc     func(ctx context.Context, movieID int) (*catalog.DataModel, error)
	RecommendedMoviesFunc func(ctx context.Context, movieID int) (*catalog.DataModel, error)
	SearchMoviesFunc      func(ctx context.Context, keyword string, includeAdult bool) (*catalog.DataModel, error)
	MovieImagesFunc       func(ctx context.Context, movieID int) (json.RawMessage, error)
	RateMovieFunc         func(ctx context.Context, movieID int, value float64) (json.RawMessage, error)
}

func (m *MockCatalogClient) PopularMovies(ctx context.Context, page int) (*catalog.DataModel, error) {
	return m.PopularMoviesFunc(ctx, page)
}

func (m *MockCatalogClient) TopRatedMovies(ctx context.Context, page int) (*catalog.DataModel, error) {
	return m.TopRatedMoviesFunc(ctx, page)
}

func (m *MockCatalogClient) NowPlayingMovies(ctx context.Context, page int) (*catalog.DataModel, error) {
	return m.NowPlayingMoviesFunc(ctx, page)
}

func (m *MockCatalogClient) UpcomingMovies(ctx context.Context, page int) (*catalog.DataModel, error) {
	return m.UpcomingMoviesFunc(ctx, page)
}

func (m *MockCatalogClient) SimilarMovies(ctx context.Context, movieID int) (*catalog.DataModel, error) {
	return m.SimilarMoviesFunc(ctx, movieID)
}

func (m *MockCatalogClient) RecommendedMovies(ctx context.Context, movieID int) (*catalog.DataModel, error) {
	return m.RecommendedMoviesFunc(ctx, movieID)
}

func (m *MockCatalogClient) SearchMovies(ctx context.Context, keyword string, includeAdult bool) (*catalog.DataModel, error) {
	return m.SearchMoviesFunc(ctx, keyword, includeAdult)
}

func (m *MockCatalogClient) MovieImages(ctx context.Context, movieID int) (json.RawMessage, error) {
	return m.MovieImagesFunc(ctx, movieID)
}

func (m *MockCatalogClient) RateMovie(ctx context.Context, movieID int, value float64) (json.RawMessage, error) {
	return m.RateMovieFunc(ctx, movieID, value)
}
