// Package catalog is the client for the remote movie catalog API.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultBaseURL is the catalog API root used when none is configured.
	DefaultBaseURL = "https://api.themoviedb.org/3/"

	// DefaultIncludeAdult is the include_adult value for searches that don't choose one.
	DefaultIncludeAdult = true
)

// ErrEmptyKeyword is returned by SearchMovies when no keyword is given.
var ErrEmptyKeyword = errors.New("search keyword is empty")

// RemoteClient is the set of catalog API calls the repository depends on.
// Every call completes exactly once with either a value or an error.
type RemoteClient interface {
	PopularMovies(ctx context.Context, page int) (*DataModel, error)
	TopRatedMovies(ctx context.Context, page int) (*DataModel, error)
	NowPlayingMovies(ctx context.Context, page int) (*DataModel, error)
	UpcomingMovies(ctx context.Context, page int) (*DataModel, error)
	SimilarMovies(ctx context.Context, movieID int) (*DataModel, error)
	RecommendedMovies(ctx context.Context, movieID int) (*DataModel, error)
	SearchMovies(ctx context.Context, keyword string, includeAdult bool) (*DataModel, error)
	MovieImages(ctx context.Context, movieID int) (json.RawMessage, error)
	RateMovie(ctx context.Context, movieID int, value float64) (json.RawMessage, error)
}

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error returns the server's status message verbatim when it sent one.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("TMDB API error (status %d): %s", e.StatusCode, e.Body)
}

// Config holds configuration for the catalog client
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// Client is the HTTP implementation of RemoteClient.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

var _ RemoteClient = (*Client)(nil)

// NewClient creates a catalog client. Request timeouts are the job of
// cfg.HTTPClient; http.DefaultClient is used when it is nil.
func NewClient(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

// PopularMovies fetches a page of popular movies.
func (c *Client) PopularMovies(ctx context.Context, page int) (*DataModel, error) {
	return c.getPage(ctx, "movie/popular", pageQuery(page))
}

// TopRatedMovies fetches a page of top rated movies.
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*DataModel, error) {
	return c.getPage(ctx, "movie/top_rated", pageQuery(page))
}

// NowPlayingMovies fetches a page of movies currently in theatres.
func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*DataModel, error) {
	return c.getPage(ctx, "movie/now_playing", pageQuery(page))
}

// UpcomingMovies fetches a page of upcoming movies.
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*DataModel, error) {
	return c.getPage(ctx, "movie/upcoming", pageQuery(page))
}

// SimilarMovies fetches movies similar to movieID.
func (c *Client) SimilarMovies(ctx context.Context, movieID int) (*DataModel, error) {
	return c.getPage(ctx, moviePath(movieID, "similar"), nil)
}

// RecommendedMovies fetches recommendations for movieID.
func (c *Client) RecommendedMovies(ctx context.Context, movieID int) (*DataModel, error) {
	return c.getPage(ctx, moviePath(movieID, "recommendations"), nil)
}

// SearchMovies searches the catalog by keyword.
func (c *Client) SearchMovies(ctx context.Context, keyword string, includeAdult bool) (*DataModel, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrEmptyKeyword
	}
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("include_adult", strconv.FormatBool(includeAdult))
	return c.getPage(ctx, "search/movie", params)
}

// MovieImages fetches the image listing for movieID without interpreting it.
func (c *Client) MovieImages(ctx context.Context, movieID int) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, moviePath(movieID, "images"), nil, nil)
}

// RateMovie submits a rating for movieID and returns the raw response.
func (c *Client) RateMovie(ctx context.Context, movieID int, value float64) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, moviePath(movieID, "rating"), nil, ratingRequest{Value: value})
}

// getPage issues a GET and decodes the paged envelope.
func (c *Client) getPage(ctx context.Context, path string, params url.Values) (*DataModel, error) {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}

	var page DataModel
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return &page, nil
}

// do executes a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	ref := &url.URL{Path: path}
	if len(params) > 0 {
		ref.RawQuery = params.Encode()
	}
	requestURL := c.baseURL.ResolveReference(ref)

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", strings.ToLower(method), path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.StatusMessage
		}
		return nil, apiErr
	}

	return body, nil
}

func pageQuery(page int) url.Values {
	if page <= 0 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

func moviePath(movieID int, resource string) string {
	return fmt.Sprintf("movie/%d/%s", movieID, resource)
}
