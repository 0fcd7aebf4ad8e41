package schedule

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
	"github.com/theoremus-urban-solutions/transit-ingest/tabular"
)

// GetTrips returns the trips for date, dropping excluded non-bus service
// lines.
func (c *Client) GetTrips(ctx context.Context, date time.Time) ([]domain.Trip, error) {
	rows, err := c.GetSchedule(ctx, date, TableTrips)
	if err != nil {
		return nil, err
	}
	trips := make([]domain.Trip, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		t, err := domain.NewTrip(row)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", TableTrips, err)
		}
		if t.Excluded() {
			dropped++
			continue
		}
		trips = append(trips, t)
	}
	c.metrics.Normalized("trip", len(trips))
	c.metrics.Dropped("trip", dropped)
	return trips, nil
}

// GetRoutes returns the bus routes for date.
func (c *Client) GetRoutes(ctx context.Context, date time.Time) ([]domain.Route, error) {
	rows, err := c.GetSchedule(ctx, date, TableRoutes)
	if err != nil {
		return nil, err
	}
	routes := make([]domain.Route, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if !domain.IsBusRouteRow(row) {
			dropped++
			continue
		}
		r, err := domain.NewRoute(row)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", TableRoutes, err)
		}
		routes = append(routes, r)
	}
	c.metrics.Normalized("route", len(routes))
	c.metrics.Dropped("route", dropped)
	return routes, nil
}

// GetStops returns the bus-served stops for date.
func (c *Client) GetStops(ctx context.Context, date time.Time) ([]domain.Stop, error) {
	rows, err := c.GetSchedule(ctx, date, TableStops)
	if err != nil {
		return nil, err
	}
	stops := make([]domain.Stop, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if !domain.IsBusStopRow(row) {
			dropped++
			continue
		}
		s, err := domain.NewStop(row)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", TableStops, err)
		}
		stops = append(stops, s)
	}
	c.metrics.Normalized("stop", len(stops))
	c.metrics.Dropped("stop", dropped)
	return stops, nil
}

// GetPaths assembles route geometries from the shapes table. The input is
// pre-sorted by shape id; a path is emitted when the id changes, with a
// synthetic terminal row flushing the last group. A row whose shape id does
// not parse is a hard failure, never a group boundary.
func (c *Client) GetPaths(ctx context.Context, date time.Time) ([]domain.Path, error) {
	rows, err := c.GetSchedule(ctx, date, TableShapes)
	if err != nil {
		return nil, err
	}
	rows = append(rows, tabular.Row{})

	var paths []domain.Path
	var cur int64
	var points [][2]float64
	for i, row := range rows {
		terminal := i == len(rows)-1
		var id int64
		if !terminal {
			id, err = strconv.ParseInt(row["shape_id"], 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("schedule %s: shape_id %q is not a valid id", TableShapes, row["shape_id"])
			}
		}
		if id != cur {
			if cur != 0 && len(points) > 0 {
				paths = append(paths, domain.Path{ID: cur, Location: domain.LineString(points)})
			}
			cur = id
			points = nil
		}
		if terminal {
			break
		}
		lon, errLon := strconv.ParseFloat(row["shape_pt_lon"], 64)
		lat, errLat := strconv.ParseFloat(row["shape_pt_lat"], 64)
		if errLon != nil || errLat != nil {
			return nil, fmt.Errorf("schedule %s: shape %d has malformed coordinates", TableShapes, id)
		}
		points = append(points, [2]float64{lon, lat})
	}
	c.metrics.Normalized("path", len(paths))
	return paths, nil
}
