package sink

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
)

// ChunkSize bounds one warehouse submission. Larger batches are split into
// sequential chunks submitted concurrently; the warehouse deduplicates on
// insertion id, so no ordering between chunks is required.
const ChunkSize = 10000

type insertRow struct {
	InsertID string          `json:"insertId"`
	JSON     json.RawMessage `json:"json"`
}

type insertRequest struct {
	Dataset string      `json:"dataset"`
	Table   string      `json:"table"`
	Rows    []insertRow `json:"rows"`
}

// Warehouse streams record batches to the warehouse insert endpoint with a
// bearer credential from the token provider.
type Warehouse struct {
	endpoint   string
	tokens     TokenProvider
	httpClient *http.Client
	log        zerolog.Logger
}

func NewWarehouse(endpoint string, tokens TokenProvider, timeout time.Duration, log zerolog.Logger) *Warehouse {
	return &Warehouse{
		endpoint:   endpoint,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (w *Warehouse) Name() string { return "warehouse" }

// Put submits the batch in chunks of at most ChunkSize rows. All chunks must
// succeed for overall success; a failed chunk does not roll back the others.
func (w *Warehouse) Put(ctx context.Context, namespace, key string, records ...domain.Record) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}
	chunks := Chunk(records, ChunkSize)

	g, ctx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		g.Go(func() error {
			return w.submit(ctx, namespace, key, chunk)
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	w.log.Debug().Str("table", namespace+"."+key).Int("records", len(records)).Int("chunks", len(chunks)).Msg("warehouse write complete")
	return true, nil
}

// Chunk splits records into sub-batches of at most size rows.
func Chunk(records []domain.Record, size int) [][]domain.Record {
	var chunks [][]domain.Record
	for start := 0; start < len(records); start += size {
		chunks = append(chunks, records[start:min(start+size, len(records))])
	}
	return chunks
}

// InsertID derives the idempotent insertion identifier and serialized row
// for one record: the record's own key when it has one, otherwise a digest
// of the serialized content. Retried submissions of the same logical record
// always carry the same id.
func InsertID(r domain.Record) (string, json.RawMessage, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", nil, err
	}
	id := r.InsertKey()
	if id == "" {
		sum := sha256.Sum256(raw)
		id = hex.EncodeToString(sum[:])
	}
	return id, raw, nil
}

// submit sends one chunk, refreshing the credential and retrying exactly
// once on an auth-expired response. The retry is a bounded loop, never
// recursion; a second consecutive 401 propagates.
func (w *Warehouse) submit(ctx context.Context, namespace, key string, chunk []domain.Record) error {
	rows := make([]insertRow, len(chunk))
	for i, r := range chunk {
		id, raw, err := InsertID(r)
		if err != nil {
			return fmt.Errorf("warehouse: encode row: %w", err)
		}
		rows[i] = insertRow{InsertID: id, JSON: raw}
	}
	body, err := json.Marshal(insertRequest{Dataset: namespace, Table: key, Rows: rows})
	if err != nil {
		return fmt.Errorf("warehouse: encode request: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		token, err := w.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("warehouse: credential: %w", err)
		}
		status, msg, err := w.post(ctx, token, body)
		if err != nil {
			return fmt.Errorf("warehouse: POST %s: %w", w.endpoint, err)
		}
		if status == http.StatusUnauthorized {
			w.tokens.Invalidate()
			if attempt == 0 {
				w.log.Warn().Str("table", namespace+"."+key).Msg("warehouse credential expired, retrying with a fresh one")
				continue
			}
			return fmt.Errorf("warehouse: HTTP 401 from %s after credential refresh", w.endpoint)
		}
		if status < 200 || status > 299 {
			return fmt.Errorf("warehouse: HTTP %d from %s: %s", status, w.endpoint, msg)
		}
		return nil
	}
	return nil
}

func (w *Warehouse) post(ctx context.Context, token string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = resp.Body.Close() }()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, string(msg), nil
}
