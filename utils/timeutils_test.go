package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDateFromCompact(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"valid date", "20250829", "2025-08-29", false},
		{"late-night service keeps its date", "20251231", "2025-12-31", false},
		{"empty", "", "", true},
		{"garbage", "2025-08-29", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ServiceDateFromCompact(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "2025-08-29", ISODate(time.Date(2025, 8, 29, 23, 15, 0, 0, time.UTC)))
}
