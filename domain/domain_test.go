package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-ingest/tabular"
)

func TestNewTrip(t *testing.T) {
	trip, err := NewTrip(tabular.Row{
		"trip_id":       "42",
		"route_id":      "7",
		"trip_headsign": "Downtown",
		"direction_id":  "0",
		"block_id":      "99",
		"shape_id":      "3",
	})
	require.NoError(t, err)
	assert.Equal(t, Trip{ID: 42, RouteID: 7, Headsign: "Downtown", Direction: 0, BlockID: 99, PathID: 3}, trip)
}

func TestNewTripMalformedID(t *testing.T) {
	_, err := NewTrip(tabular.Row{
		"trip_id": "not-a-number", "route_id": "7", "direction_id": "0", "block_id": "1", "shape_id": "2",
	})
	assert.ErrorContains(t, err, "trip_id")
}

func TestTripExcludedByHeadsignPrefix(t *testing.T) {
	tests := []struct {
		headsign string
		excluded bool
	}{
		{"MetroRail Downtown", true},
		{"Rail Shuttle", true},
		{"Downtown", false},
		{"North Lamar", false},
	}
	for _, tt := range tests {
		t.Run(tt.headsign, func(t *testing.T) {
			trip := Trip{Headsign: tt.headsign}
			assert.Equal(t, tt.excluded, trip.Excluded())
		})
	}
}

func TestNewRouteSplitsDestinations(t *testing.T) {
	route, err := NewRoute(tabular.Row{
		"route_id":         "7",
		"route_short_name": "7",
		"route_long_name":  "North Lamar / South Congress",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"North Lamar", "South Congress"}, route.Destinations)
}

func TestIsBusRouteRow(t *testing.T) {
	assert.True(t, IsBusRouteRow(tabular.Row{"route_type": "3"}))
	assert.False(t, IsBusRouteRow(tabular.Row{"route_type": "2"}))
	assert.False(t, IsBusRouteRow(tabular.Row{"route_type": ""}))
}

func TestIsBusStopRow(t *testing.T) {
	assert.True(t, IsBusStopRow(tabular.Row{"zone_id": "Bus"}))
	assert.False(t, IsBusStopRow(tabular.Row{"zone_id": "Rail"}))
}

func TestPositionUnlocated(t *testing.T) {
	assert.True(t, Position{}.Unlocated())
	assert.False(t, Position{Longitude: -97.7, Latitude: 30.2}.Unlocated())
	// A position on one zero axis is real; only the double zero is the sentinel.
	assert.False(t, Position{Longitude: 0, Latitude: 30.2}.Unlocated())
}

func TestPositionInsertKey(t *testing.T) {
	p := Position{VehicleID: "5301", Timestamp: 1700000000}
	assert.Equal(t, "5301-1700000000", p.InsertKey())
}

func TestIDSet(t *testing.T) {
	s := IDSet{}
	s.Add("7")
	s.Add("7")
	s.Add("3")
	s.Add("0")
	s.Add("")
	s.Add("junk")
	assert.Equal(t, []int64{3, 7}, s.Sorted())
}

func TestLineString(t *testing.T) {
	assert.Equal(t, "LINESTRING(1 1, 2 2)", LineString([][2]float64{{1, 1}, {2, 2}}))
	assert.Equal(t, "LINESTRING(5 5)", LineString([][2]float64{{5, 5}}))
}

func TestRecordRowAlignsWithColumns(t *testing.T) {
	records := []Record{
		Position{VehicleID: "1", Timestamp: 2},
		Alert{ID: 3},
		Trip{ID: 4},
		Route{ID: 5},
		Stop{ID: 6},
		Path{ID: 7},
	}
	for _, r := range records {
		assert.Len(t, r.Row(), len(r.Columns()))
		assert.NotEmpty(t, r.InsertKey())
	}
}
