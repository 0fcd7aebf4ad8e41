// Package pipeline orchestrates one stateless ingest invocation: fetch,
// normalize, return records to the caller, and commit them to the storage
// targets in the background.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
	"github.com/theoremus-urban-solutions/transit-ingest/internal/metrics"
	"github.com/theoremus-urban-solutions/transit-ingest/realtime"
	"github.com/theoremus-urban-solutions/transit-ingest/schedule"
	"github.com/theoremus-urban-solutions/transit-ingest/sink"
	"github.com/theoremus-urban-solutions/transit-ingest/utils"
)

// BoundTarget pairs a write target with the namespace it writes into
// (object-store namespace, warehouse dataset).
type BoundTarget struct {
	Target    sink.Target
	Namespace string
}

// Pipeline wires the acquisition clients to the storage targets.
type Pipeline struct {
	Realtime *realtime.Client
	Schedule *schedule.Client
	Targets  []BoundTarget

	log     zerolog.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func New(rt *realtime.Client, sched *schedule.Client, targets []BoundTarget, log zerolog.Logger, m *metrics.Collector) *Pipeline {
	return &Pipeline{
		Realtime: rt,
		Schedule: sched,
		Targets:  targets,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// IngestPositions returns current vehicle positions and a handle for the
// background sink writes.
func (p *Pipeline) IngestPositions(ctx context.Context) ([]domain.Position, *WriteHandle, error) {
	positions, err := p.Realtime.GetPositions(ctx)
	if err != nil {
		return nil, nil, err
	}
	key := fmt.Sprintf("positions-%d", p.now().Unix())
	return positions, p.write(ctx, key, domain.AsRecords(positions)), nil
}

// IngestAlerts returns active bus service alerts and a write handle.
func (p *Pipeline) IngestAlerts(ctx context.Context) ([]domain.Alert, *WriteHandle, error) {
	alerts, err := p.Realtime.GetAlerts(ctx)
	if err != nil {
		return nil, nil, err
	}
	key := fmt.Sprintf("alerts-%d", p.now().Unix())
	return alerts, p.write(ctx, key, domain.AsRecords(alerts)), nil
}

// IngestTrips returns the bus trips of the dated snapshot and a write handle.
func (p *Pipeline) IngestTrips(ctx context.Context, date time.Time) ([]domain.Trip, *WriteHandle, error) {
	trips, err := p.Schedule.GetTrips(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	return trips, p.write(ctx, "trips-"+utils.ISODate(date), domain.AsRecords(trips)), nil
}

// IngestRoutes returns the bus routes of the dated snapshot and a write handle.
func (p *Pipeline) IngestRoutes(ctx context.Context, date time.Time) ([]domain.Route, *WriteHandle, error) {
	routes, err := p.Schedule.GetRoutes(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	return routes, p.write(ctx, "routes-"+utils.ISODate(date), domain.AsRecords(routes)), nil
}

// IngestStops returns the bus-served stops of the dated snapshot and a write
// handle.
func (p *Pipeline) IngestStops(ctx context.Context, date time.Time) ([]domain.Stop, *WriteHandle, error) {
	stops, err := p.Schedule.GetStops(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	return stops, p.write(ctx, "stops-"+utils.ISODate(date), domain.AsRecords(stops)), nil
}

// IngestPaths returns the route geometries of the dated snapshot and a write
// handle.
func (p *Pipeline) IngestPaths(ctx context.Context, date time.Time) ([]domain.Path, *WriteHandle, error) {
	paths, err := p.Schedule.GetPaths(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	return paths, p.write(ctx, "paths-"+utils.ISODate(date), domain.AsRecords(paths)), nil
}

// write fires one background write per target and returns the handle. The
// writes outlive the caller's context: the primary response must not block
// on them, and cancelling it must not abort them.
func (p *Pipeline) write(ctx context.Context, key string, records []domain.Record) *WriteHandle {
	ctx = context.WithoutCancel(ctx)
	h := &WriteHandle{
		results: make(chan WriteResult, len(p.Targets)),
		n:       len(p.Targets),
	}
	for _, bt := range p.Targets {
		go func() {
			_, err := bt.Target.Put(ctx, bt.Namespace, key, records...)
			p.metrics.SinkWrite(bt.Target.Name(), err)
			h.results <- WriteResult{Target: bt.Target.Name(), Namespace: bt.Namespace, Key: key, Err: err}
		}()
	}
	return h
}
