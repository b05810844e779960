package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrUnexpectedStatusCode indicates an HTTP response with a non-OK status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher retrieves the markup of one catalog page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches pages over plain HTTP with a fixed timeout.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent to avoid being blocked
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(b), nil
}

// PageCache stores fetched page bodies between runs. A miss is never an
// error; the caller falls through to a live fetch.
type PageCache interface {
	Get(ctx context.Context, url string) (string, bool)
	Set(ctx context.Context, url, body string)
}

// CachedFetcher consults a page cache before hitting the network.
type CachedFetcher struct {
	next  Fetcher
	cache PageCache
	log   *slog.Logger
}

func NewCachedFetcher(next Fetcher, cache PageCache, log *slog.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, log: log}
}

func (f *CachedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if body, ok := f.cache.Get(ctx, url); ok {
		f.log.Debug("page cache hit", "url", url)
		return body, nil
	}

	body, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	f.cache.Set(ctx, url, body)

	return body, nil
}
