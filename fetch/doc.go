// Package fetch issues upstream HTTP requests through a TTL response cache.
//
// Cache keys are request URLs with query parameters stripped, so hits are
// shared across differing api keys or cache-busting parameters attached to
// the same logical resource. Cache writes are best-effort and never fail a
// fetch.
package fetch
