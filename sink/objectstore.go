package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
)

// ObjectStore writes a whole batch as one named delimited-text object.
type ObjectStore struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewObjectStore(endpoint string, timeout time.Duration, log zerolog.Logger) *ObjectStore {
	return &ObjectStore{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (s *ObjectStore) Name() string { return "objectstore" }

// Put uploads the batch with a single PUT. An empty batch is a no-op
// reporting nothing written.
func (s *ObjectStore) Put(ctx context.Context, namespace, key string, records ...domain.Record) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}
	body, err := MarshalCSV(records)
	if err != nil {
		return false, fmt.Errorf("object store: encode %s/%s: %w", namespace, key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.endpoint, namespace, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key+".csv"))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("object store: PUT %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, fmt.Errorf("object store: HTTP %d from %s: %s", resp.StatusCode, url, msg)
	}
	s.log.Debug().Str("object", namespace+"/"+key).Int("records", len(records)).Msg("object store write complete")
	return true, nil
}
