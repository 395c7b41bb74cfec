package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marco/moviebrowser/internal/catalog"
	"github.com/marco/moviebrowser/internal/config"
	"github.com/marco/moviebrowser/internal/logger"
	"github.com/marco/moviebrowser/internal/repository"
	"github.com/marco/moviebrowser/internal/store"
	"github.com/marco/moviebrowser/internal/warmup"
)

var (
	configPath   = flag.String("config", "", "Path to configuration file (defaults and env vars apply when empty)")
	list         = flag.String("list", "popular", "Listing to show: popular, top_rated, now_playing, upcoming, similar, recommended, search, cached")
	page         = flag.Int("page", 1, "Page number for paged listings")
	movieID      = flag.Int("movie", 0, "Movie ID for similar and recommended listings")
	query        = flag.String("query", "", "Keyword for search")
	includeAdult = flag.Bool("include-adult", catalog.DefaultIncludeAdult, "Include adult titles in search")
	warm         = flag.Int("warm", 0, "Prefetch popular pages 1..N into the cache and exit")
	workers      = flag.Int("workers", 4, "Concurrent fetches when warming the cache")
	clearCache   = flag.Bool("clear-cache", false, "Delete every cached movie and exit")
	verbose      = flag.Bool("verbose", false, "Show detailed logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(cfg.Log.Level, os.Stderr)
	log.WithFields(logrus.Fields{
		"base_url": cfg.API.BaseURL,
		"db_path":  cfg.Storage.Path,
	}).Debug("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.WithError(err).Error("moviebrowser failed")
		stop()
		os.Exit(1)
	}
}

// run wires the client, store and repository and executes the requested command.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger, out io.Writer) error {
	client, err := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout()},
	})
	if err != nil {
		return err
	}

	localStore, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer localStore.Close()

	repo := repository.New(client, localStore, logger.WithComponent(log, "repository"))

	switch {
	case *clearCache:
		if err := repo.ClearCache(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Cache cleared")
		return nil
	case *warm > 0:
		return warmCache(ctx, repo, *warm, *workers, log, out)
	}

	movies, err := fetchListing(ctx, repo, *list)
	if err != nil {
		return err
	}
	printMovies(out, movies)
	return nil
}

func fetchListing(ctx context.Context, repo repository.Repository, name string) ([]catalog.Movie, error) {
	switch strings.ToLower(name) {
	case "popular":
		return repo.PopularMovies(ctx, *page)
	case "top_rated":
		return repo.TopRatedMovies(ctx, *page)
	case "now_playing":
		return repo.NowPlayingMovies(ctx, *page)
	case "upcoming":
		return repo.UpcomingMovies(ctx, *page)
	case "similar":
		return repo.SimilarMovies(ctx, *movieID)
	case "recommended":
		return repo.RecommendedMovies(ctx, *movieID)
	case "search":
		return repo.SearchMovies(ctx, *query, *includeAdult)
	case "cached":
		return repo.CachedPopularMovies(ctx, *page)
	default:
		return nil, fmt.Errorf("unknown listing %q", name)
	}
}

// warmCache prefetches popular pages 1..n and reports progress while it runs.
func warmCache(ctx context.Context, repo repository.Repository, n, workers int, log *logrus.Logger, out io.Writer) error {
	pages := warmup.Pages(n)

	var processedCount int64
	progressDone := make(chan struct{})
	stopProgress := make(chan struct{})
	go func() {
		defer close(progressDone)
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				log.WithFields(logrus.Fields{
					"processed": atomic.LoadInt64(&processedCount),
					"total":     len(pages),
				}).Info("warming cache")
			case <-stopProgress:
				return
			}
		}
	}()

	results := warmup.FetchPagesConcurrently(ctx, pages, repo.PopularMovies, workers, &processedCount)
	close(stopProgress)
	<-progressDone

	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })

	var cached, failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "  page %d: error: %v\n", r.Page, r.Err)
			continue
		}
		cached += r.Count
		fmt.Fprintf(out, "  page %d: %d movies\n", r.Page, r.Count)
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(out, "Summary:\n")
	fmt.Fprintf(out, "  Pages requested: %d\n", len(pages))
	fmt.Fprintf(out, "  Movies cached: %d\n", cached)
	if failed > 0 {
		fmt.Fprintf(out, "  Errors: %d\n", failed)
		return fmt.Errorf("%d of %d pages failed", failed, len(pages))
	}
	return nil
}

func printMovies(out io.Writer, movies []catalog.Movie) {
	if len(movies) == 0 {
		fmt.Fprintln(out, "No movies found")
		return
	}
	for _, m := range movies {
		year := ""
		if len(m.ReleaseDate) >= 4 {
			year = " (" + m.ReleaseDate[:4] + ")"
		}
		fmt.Fprintf(out, "%8d  %-40s%s  %.1f/10\n", m.ID, m.Title, year, m.VoteAverage)
	}
}
