package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/theoremus-urban-solutions/transit-ingest/config"
	"github.com/theoremus-urban-solutions/transit-ingest/fetch"
	"github.com/theoremus-urban-solutions/transit-ingest/internal"
	"github.com/theoremus-urban-solutions/transit-ingest/internal/metrics"
	"github.com/theoremus-urban-solutions/transit-ingest/keyring"
	"github.com/theoremus-urban-solutions/transit-ingest/pipeline"
	"github.com/theoremus-urban-solutions/transit-ingest/realtime"
	"github.com/theoremus-urban-solutions/transit-ingest/schedule"
	"github.com/theoremus-urban-solutions/transit-ingest/sink"
)

const quotaWindowSeconds = 24 * 60 * 60

func main() {
	call := flag.String("call", "positions", "positions|alerts|trips|routes|stops|paths")
	dateStr := flag.String("date", "", "schedule snapshot date (YYYY-MM-DD, default today)")
	flag.Parse()

	log := internal.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}
	ring, err := keyring.FromDelimited(cfg.Realtime.APIKeys)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	date := time.Now()
	if *dateStr != "" {
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -date")
		}
	}

	m := metrics.NewCollector()
	fetcher := fetch.New(fetch.NewMemoryCache(), time.Duration(cfg.Realtime.TimeoutMS)*time.Millisecond, log, m)
	realtimeTTL := fetch.RealtimeTTL(quotaWindowSeconds, cfg.Realtime.RequestsPerKeyPerDay, ring.Len())

	rt := realtime.NewClient(fetcher, ring, cfg.Realtime.BaseURL, realtimeTTL, log, m)
	sched := schedule.NewClient(fetcher, cfg.Schedule.BaseURL, log, m)

	var targets []pipeline.BoundTarget
	if cfg.ObjectStore.Endpoint != "" {
		targets = append(targets, pipeline.BoundTarget{
			Target:    sink.NewObjectStore(cfg.ObjectStore.Endpoint, fetch.DefaultTimeout, log),
			Namespace: cfg.ObjectStore.Namespace,
		})
	}
	if cfg.Warehouse.Endpoint != "" {
		tokens := sink.NewTokenSource(sink.IssuerConfig{
			URL:         cfg.Warehouse.IssuerURL,
			ClientEmail: cfg.Warehouse.ClientEmail,
			PrivateKey:  cfg.Warehouse.PrivateKey,
			ProjectID:   cfg.Warehouse.ProjectID,
			KeyID:       cfg.Warehouse.KeyID,
			Scopes:      cfg.Warehouse.Scopes,
		}, sink.NewTokenCache(), fetch.DefaultTimeout)
		targets = append(targets, pipeline.BoundTarget{
			Target:    sink.NewWarehouse(cfg.Warehouse.Endpoint, tokens, fetch.DefaultTimeout, log),
			Namespace: cfg.Warehouse.Dataset,
		})
	}

	p := pipeline.New(rt, sched, targets, log, m)
	ctx := context.Background()

	var out any
	var handle *pipeline.WriteHandle
	switch *call {
	case "positions":
		out, handle, err = p.IngestPositions(ctx)
	case "alerts":
		out, handle, err = p.IngestAlerts(ctx)
	case "trips":
		out, handle, err = p.IngestTrips(ctx, date)
	case "routes":
		out, handle, err = p.IngestRoutes(ctx, date)
	case "stops":
		out, handle, err = p.IngestStops(ctx, date)
	case "paths":
		out, handle, err = p.IngestPaths(ctx, date)
	default:
		log.Fatal().Str("call", *call).Msg("unknown call")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("ingest failed")
	}

	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode result")
	}
	fmt.Println(string(buf))

	// The primary result is already out; write failures go to the reporting
	// sink, never to the response path.
	reporter := pipeline.LogReporter{Log: log, Sink: cfg.Reporting.Sink}
	for _, res := range handle.Wait() {
		reporter.Report(res)
	}
}
