package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/transit-ingest/internal/metrics"
)

// ScheduleTTL is the cache lifetime for dated schedule archives. An archive
// for a given date never changes, so roughly a year.
const ScheduleTTL = 365 * 24 * time.Hour

// DefaultTimeout bounds a single outbound request so a stuck fetch fails
// rather than hanging the invocation.
const DefaultTimeout = 30 * time.Second

// RealtimeTTL sizes the realtime cache lifetime to the combined key pool's
// quota headroom: window seconds divided by the total requests the pool may
// spend in that window.
func RealtimeTTL(windowSeconds, requestsPerKey, keyCount int) time.Duration {
	if windowSeconds <= 0 || requestsPerKey <= 0 || keyCount <= 0 {
		return 0
	}
	return time.Duration(windowSeconds/(requestsPerKey*keyCount)) * time.Second
}

// NetworkError is a non-2xx upstream response.
type NetworkError struct {
	Status int
	URL    string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
}

// Fetcher issues GET requests through the response cache.
type Fetcher struct {
	httpClient *http.Client
	cache      Cache
	log        zerolog.Logger
	metrics    *metrics.Collector
}

func New(cache Cache, timeout time.Duration, log zerolog.Logger, m *metrics.Collector) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		log:        log,
		metrics:    m,
	}
}

// CacheKey strips the query and fragment from rawURL. Auth tokens and
// cache-busting parameters never make distinct cache entries.
func CacheKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Fetch returns the body for rawURL, consulting the cache first. A fresh
// body is cached with the supplied ttl only when the fetch succeeded.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, ttl time.Duration) ([]byte, error) {
	key := CacheKey(rawURL)
	if body, ok := f.cache.Get(key); ok {
		f.metrics.CacheHit()
		return body, nil
	}
	f.metrics.CacheMiss()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.metrics.Fetch(false)
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.metrics.Fetch(false)
		return nil, &NetworkError{Status: resp.StatusCode, URL: key}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.metrics.Fetch(false)
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	f.metrics.Fetch(true)
	f.cache.Put(key, body, ttl)
	f.log.Debug().Str("url", key).Int("bytes", len(body)).Msg("fetched upstream resource")
	return body, nil
}
