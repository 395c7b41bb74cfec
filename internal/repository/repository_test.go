package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marco/moviebrowser/internal/catalog"
	"github.com/marco/moviebrowser/internal/mocks"
	"github.com/marco/moviebrowser/internal/store"
)

func testMovies(ids ...int) []catalog.Movie {
	movies := make([]catalog.Movie, 0, len(ids))
	for _, id := range ids {
		movies = append(movies, catalog.Movie{ID: id, Title: "movie"})
	}
	return movies
}

func pageOf(page int, ids ...int) func(context.Context, int) (*catalog.DataModel, error) {
	return func(context.Context, int) (*catalog.DataModel, error) {
		return &catalog.DataModel{Page: page, Data: testMovies(ids...)}, nil
	}
}

func TestPopularMovies_RemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"401 invalid api key", "Invalid API key: You must be granted a valid key."},
		{"404 not found", "The resource you requested could not be found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remoteErr := errors.New(tt.message)
			client := &mocks.MockCatalogClient{
				PopularMoviesFunc: func(context.Context, int) (*catalog.DataModel, error) {
					return nil, remoteErr
				},
			}
			localStore := &mocks.MockLocalStore{}

			movies, err := New(client, localStore, nil).PopularMovies(context.Background(), 1)

			require.Error(t, err)
			assert.Nil(t, movies)
			assert.Equal(t, tt.message, err.Error())
			assert.Same(t, remoteErr, err, "remote errors are not wrapped")
			assert.Empty(t, localStore.Inserted)
		})
	}
}

func TestPopularMovies_CachesStampedMovies(t *testing.T) {
	var requestedPage int
	client := &mocks.MockCatalogClient{
		PopularMoviesFunc: func(_ context.Context, page int) (*catalog.DataModel, error) {
			requestedPage = page
			return &catalog.DataModel{Page: 1, Data: testMovies(297761, 324668)}, nil
		},
	}
	localStore := &mocks.MockLocalStore{}

	movies, err := New(client, localStore, nil).PopularMovies(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, requestedPage)
	require.Len(t, movies, 2)
	for _, m := range movies {
		assert.Equal(t, 1, m.Page)
	}

	require.Len(t, localStore.Inserted, 1)
	if diff := cmp.Diff(movies, localStore.Inserted[0]); diff != "" {
		t.Errorf("cached movies mismatch (-returned +cached):\n%s", diff)
	}
}

func TestPopularMovies_StampsEchoedPage(t *testing.T) {
	client := &mocks.MockCatalogClient{PopularMoviesFunc: pageOf(3, 1, 2)}
	localStore := &mocks.MockLocalStore{}
	log, hook := logtest.NewNullLogger()

	movies, err := New(client, localStore, logrus.NewEntry(log)).PopularMovies(context.Background(), 2)
	require.NoError(t, err)

	for _, m := range movies {
		assert.Equal(t, 3, m.Page, "stamp uses the server page, not the requested one")
	}
	require.Len(t, localStore.Inserted, 1)
	assert.Equal(t, 3, localStore.Inserted[0][0].Page)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestPopularMovies_EmptyResultSkipsCache(t *testing.T) {
	tests := []struct {
		name string
		page *catalog.DataModel
	}{
		{"empty data", &catalog.DataModel{Page: 1, Data: []catalog.Movie{}}},
		{"null data", &catalog.DataModel{Page: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mocks.MockCatalogClient{
				PopularMoviesFunc: func(context.Context, int) (*catalog.DataModel, error) {
					return tt.page, nil
				},
			}
			localStore := &mocks.MockLocalStore{}

			movies, err := New(client, localStore, nil).PopularMovies(context.Background(), 1)
			require.NoError(t, err)

			assert.NotNil(t, movies)
			assert.Empty(t, movies)
			assert.Empty(t, localStore.Inserted)
		})
	}
}

func TestPopularMovies_CacheFailureIsSwallowed(t *testing.T) {
	client := &mocks.MockCatalogClient{PopularMoviesFunc: pageOf(1, 10, 11, 12)}
	localStore := &mocks.MockLocalStore{
		InsertFunc: func(context.Context, []catalog.Movie) error {
			return errors.New("disk I/O error")
		},
	}
	log, hook := logtest.NewNullLogger()

	movies, err := New(client, localStore, logrus.NewEntry(log)).PopularMovies(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, movies, 3)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to cache popular movies", hook.LastEntry().Message)
}

func TestPopularMovies_CancelledAfterFetchSkipsCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &mocks.MockCatalogClient{
		PopularMoviesFunc: func(context.Context, int) (*catalog.DataModel, error) {
			cancel()
			return &catalog.DataModel{Page: 1, Data: testMovies(1)}, nil
		},
	}
	localStore := &mocks.MockLocalStore{}

	movies, err := New(client, localStore, nil).PopularMovies(ctx, 1)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, movies)
	assert.Empty(t, localStore.Inserted)
}

func TestPassThroughListings(t *testing.T) {
	remoteErr := errors.New("The resource you requested could not be found.")
	failing := func(context.Context, int) (*catalog.DataModel, error) { return nil, remoteErr }

	tests := []struct {
		name   string
		client *mocks.MockCatalogClient
		call   func(r *MovieRepository) ([]catalog.Movie, error)
		want   []int
	}{
		{
			name:   "top rated",
			client: &mocks.MockCatalogClient{TopRatedMoviesFunc: pageOf(1, 278, 244786, 238)},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.TopRatedMovies(context.Background(), 1)
			},
			want: []int{278, 244786, 238},
		},
		{
			name:   "now playing",
			client: &mocks.MockCatalogClient{NowPlayingMoviesFunc: pageOf(1, 297761, 324668, 278924, 328387, 376659)},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.NowPlayingMovies(context.Background(), 1)
			},
			want: []int{297761, 324668, 278924, 328387, 376659},
		},
		{
			name:   "upcoming",
			client: &mocks.MockCatalogClient{UpcomingMoviesFunc: pageOf(1, 283552, 342521, 363676, 363841)},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.UpcomingMovies(context.Background(), 1)
			},
			want: []int{283552, 342521, 363676, 363841},
		},
		{
			name:   "similar",
			client: &mocks.MockCatalogClient{SimilarMoviesFunc: pageOf(1, 5, 6)},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.SimilarMovies(context.Background(), 42)
			},
			want: []int{5, 6},
		},
		{
			name:   "recommended",
			client: &mocks.MockCatalogClient{RecommendedMoviesFunc: pageOf(1, 7)},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.RecommendedMovies(context.Background(), 42)
			},
			want: []int{7},
		},
		{
			name: "search",
			client: &mocks.MockCatalogClient{
				SearchMoviesFunc: func(_ context.Context, keyword string, includeAdult bool) (*catalog.DataModel, error) {
					if keyword != "bourne" || !includeAdult {
						return nil, errors.New("unexpected search arguments")
					}
					return &catalog.DataModel{Page: 1, Data: testMovies(324668)}, nil
				},
			},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.SearchMovies(context.Background(), "bourne", catalog.DefaultIncludeAdult)
			},
			want: []int{324668},
		},
		{
			name:   "empty data",
			client: &mocks.MockCatalogClient{TopRatedMoviesFunc: pageOf(1)},
			call: func(r *MovieRepository) ([]catalog.Movie, error) {
				return r.TopRatedMovies(context.Background(), 1)
			},
			want: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			localStore := &mocks.MockLocalStore{}
			movies, err := tt.call(New(tt.client, localStore, nil))
			require.NoError(t, err)

			ids := []int{}
			for _, m := range movies {
				ids = append(ids, m.ID)
				assert.Zero(t, m.Page)
			}
			assert.Equal(t, tt.want, ids)
			assert.Empty(t, localStore.Inserted, "pass-through listings never touch the cache")
		})
	}

	t.Run("errors are returned unchanged", func(t *testing.T) {
		client := &mocks.MockCatalogClient{
			TopRatedMoviesFunc:    failing,
			NowPlayingMoviesFunc:  failing,
			UpcomingMoviesFunc:    failing,
			SimilarMoviesFunc:     failing,
			RecommendedMoviesFunc: failing,
		}
		repo := New(client, &mocks.MockLocalStore{}, nil)
		ctx := context.Background()

		calls := []func() ([]catalog.Movie, error){
			func() ([]catalog.Movie, error) { return repo.TopRatedMovies(ctx, 1) },
			func() ([]catalog.Movie, error) { return repo.NowPlayingMovies(ctx, 1) },
			func() ([]catalog.Movie, error) { return repo.UpcomingMovies(ctx, 1) },
			func() ([]catalog.Movie, error) { return repo.SimilarMovies(ctx, 1) },
			func() ([]catalog.Movie, error) { return repo.RecommendedMovies(ctx, 1) },
		}
		for _, call := range calls {
			movies, err := call()
			assert.Nil(t, movies)
			assert.Same(t, remoteErr, err)
		}
	})
}

func TestCachedPopularMoviesAndClearCache(t *testing.T) {
	cached := []catalog.Movie{{ID: 1, Page: 2}}
	var deleted bool
	localStore := &mocks.MockLocalStore{
		MoviesFunc: func(_ context.Context, page int) ([]catalog.Movie, error) {
			if page != 2 {
				return []catalog.Movie{}, nil
			}
			return cached, nil
		},
		DeleteAllFunc: func(context.Context) error {
			deleted = true
			return nil
		},
	}
	repo := New(&mocks.MockCatalogClient{}, localStore, nil)

	movies, err := repo.CachedPopularMovies(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, cached, movies)

	require.NoError(t, repo.ClearCache(context.Background()))
	assert.True(t, deleted)
}

func TestPopularMovies_WritesThroughToSQLite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/popular" {
			_, _ = w.Write([]byte(`{"page":1,"data":[{"id":297761,"title":"Suicide Squad"},{"id":324668,"title":"Jason Bourne"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"page":1,"data":[{"id":278},{"id":244786},{"id":238}]}`))
	}))
	defer srv.Close()

	client, err := catalog.NewClient(catalog.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	localStore, err := store.Open(filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	defer localStore.Close()

	repo := New(client, localStore, nil)
	ctx := context.Background()

	topRated, err := repo.TopRatedMovies(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, topRated, 3)
	cached, err := repo.CachedPopularMovies(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cached, "top rated must not be cached")

	popular, err := repo.PopularMovies(ctx, 1)
	require.NoError(t, err)
	cached, err = repo.CachedPopularMovies(ctx, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(popular, cached); diff != "" {
		t.Errorf("cache mismatch (-fetched +cached):\n%s", diff)
	}

	require.NoError(t, repo.ClearCache(ctx))
	cached, err = repo.CachedPopularMovies(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cached)
}
