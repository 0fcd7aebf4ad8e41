package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/transit-ingest/archive"
	"github.com/theoremus-urban-solutions/transit-ingest/fetch"
	"github.com/theoremus-urban-solutions/transit-ingest/internal/metrics"
	"github.com/theoremus-urban-solutions/transit-ingest/tabular"
	"github.com/theoremus-urban-solutions/transit-ingest/utils"
)

// Schedule table members inside the archive.
const (
	TableTrips  = "trips.txt"
	TableStops  = "stops.txt"
	TableRoutes = "routes.txt"
	TableShapes = "shapes.txt"
)

// Client fetches dated schedule snapshot archives.
type Client struct {
	fetcher *fetch.Fetcher
	baseURL string
	ttl     time.Duration
	log     zerolog.Logger
	metrics *metrics.Collector
}

func NewClient(f *fetch.Fetcher, baseURL string, log zerolog.Logger, m *metrics.Collector) *Client {
	return &Client{
		fetcher: f,
		baseURL: baseURL,
		ttl:     fetch.ScheduleTTL,
		log:     log,
		metrics: m,
	}
}

// GetSchedule fetches the archive for date, extracts the named table and
// parses it. The snapshot version is the ISO calendar date.
func (c *Client) GetSchedule(ctx context.Context, date time.Time, table string) ([]tabular.Row, error) {
	version := utils.ISODate(date)
	url := fmt.Sprintf("%s/google_transit_%s.zip", c.baseURL, version)
	body, err := c.fetcher.Fetch(ctx, url, c.ttl)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", version, err)
	}
	members, err := archive.Unzip(body, table)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", version, err)
	}
	text, ok := members[table]
	if !ok {
		return nil, fmt.Errorf("schedule %s: member %s missing from archive", version, table)
	}
	rows, err := tabular.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: parse %s: %w", version, table, err)
	}
	return rows, nil
}
