package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderKeyedRows(t *testing.T) {
	rows, err := Parse("trip_id,route_id,trip_headsign\n42,7,\"Downtown\"\n43,8,Uptown\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"trip_id": "42", "route_id": "7", "trip_headsign": "Downtown"}, rows[0])
	assert.Equal(t, Row{"trip_id": "43", "route_id": "8", "trip_headsign": "Uptown"}, rows[1])
}

func TestParseSkipsBlankRows(t *testing.T) {
	rows, err := Parse("a,b\n1,2\n,\n3,4\n")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[1]["a"])
}

func TestParseCollectsAllRowErrors(t *testing.T) {
	_, err := Parse("a,b\n1\n2,3\n4,5,6\n")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Len(t, perr.Errors, 2)
	assert.ErrorContains(t, perr.Errors[0], "row 2")
	assert.ErrorContains(t, perr.Errors[1], "row 4")
}

func TestParseEmptyInput(t *testing.T) {
	rows, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseHeaderOnly(t *testing.T) {
	rows, err := Parse("a,b\n")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
