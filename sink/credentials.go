package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// TokenTTL is how long an issued bearer credential is reused before a fresh
// one is requested.
const TokenTTL = time.Hour

// IssuerConfig identifies the token issuer and the service-account material
// exchanged for a bearer credential.
type IssuerConfig struct {
	URL         string
	ClientEmail string
	PrivateKey  string
	ProjectID   string
	KeyID       string
	Scopes      []string
}

type cachedToken struct {
	token   string
	expires time.Time
}

// TokenCache holds issued credentials keyed by issuer composite key. Shared
// across invocations where available; a refresh race between two invocations
// is last-write-wins since bearer tokens are idempotent.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]cachedToken
	now    func() time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: map[string]cachedToken{}, now: time.Now}
}

func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.RLock()
	t, ok := c.tokens[key]
	c.mu.RUnlock()
	if !ok || c.now().After(t.expires) {
		return "", false
	}
	return t.token, true
}

func (c *TokenCache) Put(key, token string, ttl time.Duration) {
	c.mu.Lock()
	c.tokens[key] = cachedToken{token: token, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TokenCache) Delete(key string) {
	c.mu.Lock()
	delete(c.tokens, key)
	c.mu.Unlock()
}

// TokenProvider is what the warehouse target needs from credential
// management.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// TokenSource issues bearer credentials through the token issuer, caching
// them in a TokenCache.
type TokenSource struct {
	cfg        IssuerConfig
	cache      *TokenCache
	httpClient *http.Client
}

func NewTokenSource(cfg IssuerConfig, cache *TokenCache, timeout time.Duration) *TokenSource {
	return &TokenSource{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *TokenSource) cacheKey() string {
	return s.cfg.URL + "|" + s.cfg.ProjectID + "|" + s.cfg.KeyID
}

// Token returns a cached credential or requests a fresh one from the issuer.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := s.cache.Get(s.cacheKey()); ok {
		return token, nil
	}

	payload := struct {
		Credentials struct {
			ClientEmail string `json:"client_email"`
			PrivateKey  string `json:"private_key"`
		} `json:"credentials"`
		ProjectID string   `json:"projectId"`
		Scopes    []string `json:"scopes"`
	}{ProjectID: s.cfg.ProjectID, Scopes: s.cfg.Scopes}
	payload.Credentials.ClientEmail = s.cfg.ClientEmail
	payload.Credentials.PrivateKey = s.cfg.PrivateKey

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token issuer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("token issuer: HTTP %d from %s", resp.StatusCode, s.cfg.URL)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("token issuer: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	s.cache.Put(s.cacheKey(), token, TokenTTL)
	return token, nil
}

// Invalidate discards the cached credential so the next Token call issues a
// fresh one.
func (s *TokenSource) Invalidate() {
	s.cache.Delete(s.cacheKey())
}
