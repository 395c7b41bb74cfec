// Package repository exposes movie listings backed by the catalog API, with
// popular pages written through to the local store.
package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/marco/moviebrowser/internal/catalog"
	"github.com/marco/moviebrowser/internal/logger"
	"github.com/marco/moviebrowser/internal/store"
)

// Repository is the read API for movie listings.
// Remote errors are returned unchanged.
type Repository interface {
	PopularMovies(ctx context.Context, page int) ([]catalog.Movie, error)
	TopRatedMovies(ctx context.Context, page int) ([]catalog.Movie, error)
	NowPlayingMovies(ctx context.Context, page int) ([]catalog.Movie, error)
	UpcomingMovies(ctx context.Context, page int) ([]catalog.Movie, error)
	SimilarMovies(ctx context.Context, movieID int) ([]catalog.Movie, error)
	RecommendedMovies(ctx context.Context, movieID int) ([]catalog.Movie, error)
	SearchMovies(ctx context.Context, keyword string, includeAdult bool) ([]catalog.Movie, error)
	CachedPopularMovies(ctx context.Context, page int) ([]catalog.Movie, error)
	ClearCache(ctx context.Context) error
}

// MovieRepository combines a RemoteClient with a LocalStore.
type MovieRepository struct {
	client catalog.RemoteClient
	store  store.LocalStore
	log    *logrus.Entry
}

var _ Repository = (*MovieRepository)(nil)

// New creates a MovieRepository. A nil log discards output.
func New(client catalog.RemoteClient, localStore store.LocalStore, log *logrus.Entry) *MovieRepository {
	if log == nil {
		log = logger.Discard()
	}
	return &MovieRepository{
		client: client,
		store:  localStore,
		log:    log,
	}
}

// PopularMovies fetches popular movies and caches them under the page the
// server reports. A failed cache write is logged, not returned.
func (r *MovieRepository) PopularMovies(ctx context.Context, page int) ([]catalog.Movie, error) {
	result, err := r.client.PopularMovies(ctx, page)
	if err != nil {
		return nil, err
	}

	// The stamp is the echoed page, even when it differs from the request.
	pageID := result.Page
	if page > 0 && pageID != page {
		r.log.WithFields(logrus.Fields{
			"requested_page": page,
			"response_page":  pageID,
		}).Warn("popular movies: server echoed a different page")
	}

	movies := result.Movies()
	for i := range movies {
		movies[i].Page = pageID
	}

	if len(movies) == 0 {
		return movies, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.store.Insert(ctx, movies); err != nil {
		r.log.WithError(err).WithField("page", pageID).Error("failed to cache popular movies")
	} else {
		r.log.WithFields(logrus.Fields{"page": pageID, "count": len(movies)}).Debug("cached popular movies")
	}

	return movies, nil
}

// TopRatedMovies fetches top rated movies without caching.
func (r *MovieRepository) TopRatedMovies(ctx context.Context, page int) ([]catalog.Movie, error) {
	return listing(r.client.TopRatedMovies(ctx, page))
}

// NowPlayingMovies fetches now playing movies without caching.
func (r *MovieRepository) NowPlayingMovies(ctx context.Context, page int) ([]catalog.Movie, error) {
	return listing(r.client.NowPlayingMovies(ctx, page))
}

// UpcomingMovies fetches upcoming movies without caching.
func (r *MovieRepository) UpcomingMovies(ctx context.Context, page int) ([]catalog.Movie, error) {
	return listing(r.client.UpcomingMovies(ctx, page))
}

// SimilarMovies fetches movies similar to movieID without caching.
func (r *MovieRepository) SimilarMovies(ctx context.Context, movieID int) ([]catalog.Movie, error) {
	return listing(r.client.SimilarMovies(ctx, movieID))
}

// RecommendedMovies fetches recommendations for movieID without caching.
func (r *MovieRepository) RecommendedMovies(ctx context.Context, movieID int) ([]catalog.Movie, error) {
	return listing(r.client.RecommendedMovies(ctx, movieID))
}

// SearchMovies searches the catalog without caching.
func (r *MovieRepository) SearchMovies(ctx context.Context, keyword string, includeAdult bool) ([]catalog.Movie, error) {
	return listing(r.client.SearchMovies(ctx, keyword, includeAdult))
}

// CachedPopularMovies returns the popular movies previously cached for page.
func (r *MovieRepository) CachedPopularMovies(ctx context.Context, page int) ([]catalog.Movie, error) {
	return r.store.Movies(ctx, page)
}

// ClearCache removes every cached movie.
func (r *MovieRepository) ClearCache(ctx context.Context) error {
	return r.store.DeleteAll(ctx)
}

func listing(result *catalog.DataModel, err error) ([]catalog.Movie, error) {
	if err != nil {
		return nil, err
	}
	return result.Movies(), nil
}
