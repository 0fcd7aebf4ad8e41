package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
	"github.com/theoremus-urban-solutions/transit-ingest/tabular"
)

func TestObjectStoreEmptyBatchIsNoOp(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	s := NewObjectStore(srv.URL, time.Second, zerolog.Nop())
	ok, err := s.Put(context.Background(), "transit", "trips-2025-08-29")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), hits.Load())
}

func TestObjectStorePut(t *testing.T) {
	var gotPath, gotDisposition string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotDisposition = r.Header.Get("Content-Disposition")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	records := []domain.Record{
		domain.Trip{ID: 42, RouteID: 7, Headsign: "Downtown", Direction: 0, BlockID: 99, PathID: 3},
		domain.Trip{ID: 43, RouteID: 8, Headsign: "Uptown", Direction: 1, BlockID: 12, PathID: 4},
	}
	s := NewObjectStore(srv.URL, time.Second, zerolog.Nop())
	ok, err := s.Put(context.Background(), "transit", "trips-2025-08-29", records...)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/transit/trips-2025-08-29", gotPath)
	assert.Contains(t, gotDisposition, "trips-2025-08-29.csv")

	rows, err := tabular.Parse(string(gotBody))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tabular.Row{
		"id": "42", "route": "7", "headsign": "Downtown", "direction": "0", "block": "99", "path": "3",
	}, rows[0])
}

// The delimited-text encoding must survive a parse round trip with column
// order and values preserved.
func TestMarshalCSVRoundTrip(t *testing.T) {
	records := []domain.Record{
		domain.Position{VehicleID: "5301", TripID: "9001", RouteID: "7", Direction: 1, NextStop: 12,
			Longitude: -97.74, Latitude: 30.26, Timestamp: 1700000100, ServiceDate: "2025-08-29"},
		domain.Position{VehicleID: "5302", TripID: "9002", RouteID: "8", Direction: 0, NextStop: 3,
			Longitude: -97.7, Latitude: 30.3, Timestamp: 1700000200, ServiceDate: "2025-08-29"},
	}

	body, err := MarshalCSV(records)
	require.NoError(t, err)

	rows, err := tabular.Parse(string(body))
	require.NoError(t, err)
	require.Len(t, rows, len(records))
	for i, r := range records {
		cols := r.Columns()
		vals := r.Row()
		for j, col := range cols {
			assert.Equal(t, vals[j], rows[i][col])
		}
	}
}

func TestMarshalCSVEmptyBatch(t *testing.T) {
	body, err := MarshalCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestObjectStoreNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("access denied"))
	}))
	defer srv.Close()

	s := NewObjectStore(srv.URL, time.Second, zerolog.Nop())
	_, err := s.Put(context.Background(), "transit", "k", domain.Path{ID: 1, Location: "LINESTRING(1 1)"})
	assert.ErrorContains(t, err, "HTTP 403")
	assert.ErrorContains(t, err, "access denied")
}
