package sink

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
)

// Target is one write destination. Put reports (true, nil) when the batch
// was committed, (false, nil) when there was nothing to write, and
// (false, err) on failure. Already-submitted chunks are not rolled back; the
// failure is not atomic across chunks.
type Target interface {
	Name() string
	Put(ctx context.Context, namespace, key string, records ...domain.Record) (bool, error)
}

// MarshalCSV renders a record batch as delimited text with a header row.
// Columns are taken from the first record's field set; an empty batch yields
// an empty body.
func MarshalCSV(records []domain.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(records[0].Columns()); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
