package realtime

import (
	"context"
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/transit-ingest/fetch"
	"github.com/theoremus-urban-solutions/transit-ingest/internal/metrics"
	"github.com/theoremus-urban-solutions/transit-ingest/keyring"
)

// Feed resource names under {base}/v2/.
const (
	ResourceVehiclePositions = "vehiclepositions"
	ResourceAlerts           = "alerts"
)

// Client fetches GTFS-Realtime resources through the response cache with a
// rotated api key per request.
type Client struct {
	fetcher *fetch.Fetcher
	ring    *keyring.Ring
	baseURL string
	ttl     time.Duration
	log     zerolog.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func NewClient(f *fetch.Fetcher, ring *keyring.Ring, baseURL string, ttl time.Duration, log zerolog.Logger, m *metrics.Collector) *Client {
	return &Client{
		fetcher: f,
		ring:    ring,
		baseURL: baseURL,
		ttl:     ttl,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// GetFeed fetches one realtime resource and decodes it as a FeedMessage,
// returning its entities.
func (c *Client) GetFeed(ctx context.Context, resource string) ([]*gtfsrtpb.FeedEntity, error) {
	url := fmt.Sprintf("%s/v2/%s?apikey=%s", c.baseURL, resource, c.ring.Pick())
	body, err := c.fetcher.Fetch(ctx, url, c.ttl)
	if err != nil {
		return nil, err
	}
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(body, &fm); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", resource, err)
	}
	return fm.Entity, nil
}
