// Package keyring rotates upstream API keys across requests.
//
// The upstream API enforces a daily quota per key. Picking uniformly at
// random spreads load across the pool without any shared rotation state
// between invocations.
package keyring

import (
	"errors"
	"math/rand/v2"
	"strings"
)

// ErrNoKeys is returned when the configured key set is empty. This is a
// configuration error and should be surfaced at startup, not per request.
var ErrNoKeys = errors.New("keyring: no API keys configured")

// Ring holds the configured key pool. It is immutable after construction and
// safe for concurrent use.
type Ring struct {
	keys []string
}

// New builds a Ring from an explicit key list.
func New(keys []string) (*Ring, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	return &Ring{keys: keys}, nil
}

// FromDelimited builds a Ring from a comma-delimited configuration string,
// trimming whitespace and dropping empty segments.
func FromDelimited(s string) (*Ring, error) {
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keys = append(keys, p)
		}
	}
	return New(keys)
}

// Pick returns one key chosen uniformly at random.
func (r *Ring) Pick() string {
	return r.keys[rand.IntN(len(r.keys))]
}

// Len reports the pool size. The realtime cache TTL is sized from it.
func (r *Ring) Len() int {
	return len(r.keys)
}
