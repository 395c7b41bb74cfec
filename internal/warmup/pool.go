// Package warmup prefetches several popular pages so they land in the cache.
package warmup

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/marco/moviebrowser/internal/catalog"
)

// PageResult holds the outcome of fetching a single page.
type PageResult struct {
	Page  int
	Count int
	Err   error
}

// FetchFunc fetches one page of movies.
type FetchFunc func(ctx context.Context, page int) ([]catalog.Movie, error)

// Pages returns the page numbers 1..n.
func Pages(n int) []int {
	if n < 0 {
		n = 0
	}
	pages := make([]int, 0, n)
	for p := 1; p <= n; p++ {
		pages = append(pages, p)
	}
	return pages
}

// FetchPagesConcurrently fans page fetches out across N workers.
// The processedCount pointer is atomically incremented after each page
// completes (success or failure), enabling external progress reporting.
// Results are returned in no guaranteed order.
func FetchPagesConcurrently(
	ctx context.Context,
	pages []int,
	fn FetchFunc,
	workers int,
	processedCount *int64,
) []PageResult {
	if workers <= 0 {
		workers = 1
	}
	if processedCount == nil {
		processedCount = new(int64)
	}

	jobs := make(chan int, len(pages))
	results := make(chan PageResult, len(pages))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				if ctx.Err() != nil {
					results <- PageResult{Page: page, Err: ctx.Err()}
					atomic.AddInt64(processedCount, 1)
					continue
				}

				movies, err := fn(ctx, page)
				results <- PageResult{Page: page, Count: len(movies), Err: err}
				atomic.AddInt64(processedCount, 1)
			}
		}()
	}

	for _, page := range pages {
		jobs <- page
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var out []PageResult
	for r := range results {
		out = append(out, r)
	}
	return out
}
