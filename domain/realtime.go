package domain

import (
	"sort"
	"strconv"
	"strings"
)

// BusRouteType is the GTFS route_type ordinal for bus service.
const BusRouteType = 3

// Position is one observed vehicle location.
type Position struct {
	VehicleID   string  `json:"vehicleId"`
	TripID      string  `json:"tripId"`
	RouteID     string  `json:"routeId"`
	Direction   int     `json:"direction"`
	NextStop    int     `json:"nextStop"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	Timestamp   int64   `json:"timestamp"`
	ServiceDate string  `json:"serviceDate"`
}

// Unlocated reports the upstream "not yet acquired" sentinel. Such records
// are dropped, never stored.
func (p Position) Unlocated() bool {
	return p.Longitude == 0 && p.Latitude == 0
}

// InsertKey is vehicle id + observation timestamp, the composite identity of
// a position sample.
func (p Position) InsertKey() string {
	return p.VehicleID + "-" + strconv.FormatInt(p.Timestamp, 10)
}

func (p Position) Columns() []string {
	return []string{"vehicle_id", "trip_id", "route_id", "direction", "next_stop", "longitude", "latitude", "timestamp", "service_date"}
}

func (p Position) Row() []string {
	return []string{
		p.VehicleID,
		p.TripID,
		p.RouteID,
		strconv.Itoa(p.Direction),
		strconv.Itoa(p.NextStop),
		formatFloat(p.Longitude),
		formatFloat(p.Latitude),
		strconv.FormatInt(p.Timestamp, 10),
		p.ServiceDate,
	}
}

// Alert is one service alert affecting bus service.
type Alert struct {
	ID       int64   `json:"id"`
	Text     string  `json:"text"`
	Start    int64   `json:"start"`
	End      int64   `json:"end"`
	Routes   []int64 `json:"routes"`
	Trips    []int64 `json:"trips"`
	Stops    []int64 `json:"stops"`
	Cause    string  `json:"cause"`
	Effect   string  `json:"effect"`
	Severity string  `json:"severity"`
}

func (a Alert) InsertKey() string {
	return strconv.FormatInt(a.ID, 10)
}

func (a Alert) Columns() []string {
	return []string{"id", "text", "start", "end", "routes", "trips", "stops", "cause", "effect", "severity"}
}

func (a Alert) Row() []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Text,
		strconv.FormatInt(a.Start, 10),
		strconv.FormatInt(a.End, 10),
		joinIDs(a.Routes),
		joinIDs(a.Trips),
		joinIDs(a.Stops),
		a.Cause,
		a.Effect,
		a.Severity,
	}
}

// IDSet collects numeric ids, dropping zero and duplicates.
type IDSet map[int64]struct{}

func (s IDSet) Add(raw string) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id == 0 {
		return
	}
	s[id] = struct{}{}
}

// Sorted returns the set ascending for deterministic serialization.
func (s IDSet) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "|")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
