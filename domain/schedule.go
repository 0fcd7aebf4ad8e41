package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/transit-ingest/tabular"
)

// excludedHeadsignPrefixes marks trips of non-bus service lines published in
// the same trips table.
var excludedHeadsignPrefixes = []string{"MetroRail", "Rail"}

// BusZone is the stops.txt zone identifier for bus-served stops.
const BusZone = "Bus"

// Trip is one scheduled trip.
type Trip struct {
	ID        int64  `json:"id"`
	RouteID   int64  `json:"route"`
	Headsign  string `json:"headsign"`
	Direction int    `json:"direction"`
	BlockID   int64  `json:"block"`
	PathID    int64  `json:"path"`
}

// NewTrip builds a Trip from a trips.txt row.
func NewTrip(row tabular.Row) (Trip, error) {
	id, err := parseID(row, "trip_id")
	if err != nil {
		return Trip{}, err
	}
	routeID, err := parseID(row, "route_id")
	if err != nil {
		return Trip{}, err
	}
	direction, err := parseOrdinal(row, "direction_id")
	if err != nil {
		return Trip{}, err
	}
	blockID, err := parseID(row, "block_id")
	if err != nil {
		return Trip{}, err
	}
	pathID, err := parseID(row, "shape_id")
	if err != nil {
		return Trip{}, err
	}
	return Trip{
		ID:        id,
		RouteID:   routeID,
		Headsign:  row["trip_headsign"],
		Direction: direction,
		BlockID:   blockID,
		PathID:    pathID,
	}, nil
}

// Excluded reports whether the trip belongs to an excluded non-bus service
// line, identified by headsign prefix.
func (t Trip) Excluded() bool {
	for _, p := range excludedHeadsignPrefixes {
		if strings.HasPrefix(t.Headsign, p) {
			return true
		}
	}
	return false
}

func (t Trip) InsertKey() string { return strconv.FormatInt(t.ID, 10) }

func (t Trip) Columns() []string {
	return []string{"id", "route", "headsign", "direction", "block", "path"}
}

func (t Trip) Row() []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		strconv.FormatInt(t.RouteID, 10),
		t.Headsign,
		strconv.Itoa(t.Direction),
		strconv.FormatInt(t.BlockID, 10),
		strconv.FormatInt(t.PathID, 10),
	}
}

// Route is one bus route.
type Route struct {
	ID           int64    `json:"id"`
	Code         string   `json:"code"`
	Destinations []string `json:"destinations"`
}

// NewRoute builds a Route from a routes.txt row. Destination names are split
// from the delimited long-name field.
func NewRoute(row tabular.Row) (Route, error) {
	id, err := parseID(row, "route_id")
	if err != nil {
		return Route{}, err
	}
	var dests []string
	for _, d := range strings.Split(row["route_long_name"], "/") {
		if d = strings.TrimSpace(d); d != "" {
			dests = append(dests, d)
		}
	}
	return Route{ID: id, Code: row["route_short_name"], Destinations: dests}, nil
}

// IsBusRouteRow reports whether a routes.txt row carries the bus route_type.
func IsBusRouteRow(row tabular.Row) bool {
	t, err := strconv.Atoi(row["route_type"])
	return err == nil && t == BusRouteType
}

func (r Route) InsertKey() string { return strconv.FormatInt(r.ID, 10) }

func (r Route) Columns() []string { return []string{"id", "code", "destinations"} }

func (r Route) Row() []string {
	return []string{strconv.FormatInt(r.ID, 10), r.Code, strings.Join(r.Destinations, "|")}
}

// Stop is one bus-served stop.
type Stop struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// NewStop builds a Stop from a stops.txt row.
func NewStop(row tabular.Row) (Stop, error) {
	id, err := parseID(row, "stop_id")
	if err != nil {
		return Stop{}, err
	}
	lon, err := parseFloat(row, "stop_lon")
	if err != nil {
		return Stop{}, err
	}
	lat, err := parseFloat(row, "stop_lat")
	if err != nil {
		return Stop{}, err
	}
	return Stop{ID: id, Code: row["stop_code"], Name: row["stop_name"], Longitude: lon, Latitude: lat}, nil
}

// IsBusStopRow reports whether a stops.txt row sits in the bus zone.
func IsBusStopRow(row tabular.Row) bool {
	return row["zone_id"] == BusZone
}

func (s Stop) InsertKey() string { return strconv.FormatInt(s.ID, 10) }

func (s Stop) Columns() []string {
	return []string{"id", "code", "name", "longitude", "latitude"}
}

func (s Stop) Row() []string {
	return []string{
		strconv.FormatInt(s.ID, 10),
		s.Code,
		s.Name,
		formatFloat(s.Longitude),
		formatFloat(s.Latitude),
	}
}

// Path is a route's road geometry as a WKT linestring.
type Path struct {
	ID       int64  `json:"id"`
	Location string `json:"location"`
}

func (p Path) InsertKey() string { return strconv.FormatInt(p.ID, 10) }

func (p Path) Columns() []string { return []string{"id", "location"} }

func (p Path) Row() []string {
	return []string{strconv.FormatInt(p.ID, 10), p.Location}
}

// LineString renders lon/lat pairs as WKT: LINESTRING(1 1, 2 2).
func LineString(points [][2]float64) string {
	parts := make([]string, len(points))
	for i, pt := range points {
		parts[i] = formatFloat(pt[0]) + " " + formatFloat(pt[1])
	}
	return "LINESTRING(" + strings.Join(parts, ", ") + ")"
}

func parseID(row tabular.Row, field string) (int64, error) {
	id, err := strconv.ParseInt(row[field], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, row[field], err)
	}
	return id, nil
}

func parseOrdinal(row tabular.Row, field string) (int, error) {
	n, err := strconv.Atoi(row[field])
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, row[field], err)
	}
	return n, nil
}

func parseFloat(row tabular.Row, field string) (float64, error) {
	f, err := strconv.ParseFloat(row[field], 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, row[field], err)
	}
	return f, nil
}
