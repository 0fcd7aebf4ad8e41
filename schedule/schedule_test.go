package schedule

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
	"github.com/theoremus-urban-solutions/transit-ingest/fetch"
)

var snapshotDate = time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)

func buildArchive(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newTestClient(t *testing.T, members map[string]string) *Client {
	t.Helper()
	data := buildArchive(t, members)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/google_transit_2025-08-29.zip" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	f := fetch.New(fetch.NewMemoryCache(), time.Second, zerolog.Nop(), nil)
	return NewClient(f, srv.URL, zerolog.Nop(), nil)
}

func TestGetTrips(t *testing.T) {
	c := newTestClient(t, map[string]string{
		TableTrips: "trip_id,route_id,trip_headsign,direction_id,block_id,shape_id\n" +
			`42,7,"Downtown",0,99,3` + "\n" +
			"43,550,MetroRail Downtown,1,12,8\n",
	})

	trips, err := c.GetTrips(context.Background(), snapshotDate)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, domain.Trip{ID: 42, RouteID: 7, Headsign: "Downtown", Direction: 0, BlockID: 99, PathID: 3}, trips[0])
}

func TestGetRoutesKeepsBusOnly(t *testing.T) {
	c := newTestClient(t, map[string]string{
		TableRoutes: "route_id,route_short_name,route_long_name,route_type\n" +
			"7,7,North Lamar/South Congress,3\n" +
			"550,550,MetroRail Red Line,2\n",
	})

	routes, err := c.GetRoutes(context.Background(), snapshotDate)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, int64(7), routes[0].ID)
	assert.Equal(t, []string{"North Lamar", "South Congress"}, routes[0].Destinations)
}

func TestGetStopsKeepsBusZoneOnly(t *testing.T) {
	c := newTestClient(t, map[string]string{
		TableStops: "stop_id,stop_code,stop_name,stop_lon,stop_lat,zone_id\n" +
			"55,C55,Congress & 5th,-97.74,30.26,Bus\n" +
			"90,R90,Downtown Station,-97.73,30.27,Rail\n",
	})

	stops, err := c.GetStops(context.Background(), snapshotDate)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, domain.Stop{ID: 55, Code: "C55", Name: "Congress & 5th", Longitude: -97.74, Latitude: 30.26}, stops[0])
}

func TestGetPathsGroupsConsecutiveShapeRows(t *testing.T) {
	c := newTestClient(t, map[string]string{
		TableShapes: "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"1,1,1,1\n" +
			"1,2,2,2\n" +
			"2,5,5,1\n",
	})

	paths, err := c.GetPaths(context.Background(), snapshotDate)
	require.NoError(t, err)
	require.Equal(t, []domain.Path{
		{ID: 1, Location: "LINESTRING(1 1, 2 2)"},
		{ID: 2, Location: "LINESTRING(5 5)"},
	}, paths)
}

func TestGetPathsMalformedShapeIDFails(t *testing.T) {
	c := newTestClient(t, map[string]string{
		TableShapes: "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"1,1,1,1\n" +
			"abc,2,2,2\n" +
			"1,3,3,3\n",
	})

	// A bad id in the middle of a group must fail outright. Treating it as
	// a group boundary would emit two partial paths under the same id and a
	// deduplicating sink would drop one of them.
	paths, err := c.GetPaths(context.Background(), snapshotDate)
	require.Error(t, err)
	assert.ErrorContains(t, err, `shape_id "abc"`)
	assert.Nil(t, paths)
}

func TestGetScheduleMissingMember(t *testing.T) {
	c := newTestClient(t, map[string]string{TableStops: "stop_id\n1\n"})

	_, err := c.GetSchedule(context.Background(), snapshotDate, TableTrips)
	assert.ErrorContains(t, err, "2025-08-29")
	assert.ErrorContains(t, err, "trips.txt")
	assert.ErrorContains(t, err, "missing")
}

func TestGetScheduleParseErrorsAreFatal(t *testing.T) {
	c := newTestClient(t, map[string]string{TableTrips: "a,b\n1\n2\n"})

	_, err := c.GetSchedule(context.Background(), snapshotDate, TableTrips)
	assert.ErrorContains(t, err, "malformed rows")
}

func TestGetScheduleNotFoundForDate(t *testing.T) {
	c := newTestClient(t, map[string]string{})

	_, err := c.GetSchedule(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), TableTrips)
	assert.ErrorContains(t, err, "2024-01-01")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestGetTripsMalformedRowFails(t *testing.T) {
	c := newTestClient(t, map[string]string{
		TableTrips: "trip_id,route_id,trip_headsign,direction_id,block_id,shape_id\n" +
			"abc,7,Downtown,0,99,3\n",
	})

	_, err := c.GetTrips(context.Background(), snapshotDate)
	assert.ErrorContains(t, err, "trip_id")
}
