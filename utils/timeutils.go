package utils

import (
	"fmt"
	"time"
)

// ISODate returns just the date portion in YYYY-MM-DD format.
// Schedule snapshot versions are keyed by this string.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ServiceDateFromCompact converts an 8-digit GTFS start_date (YYYYMMDD) to
// YYYY-MM-DD. The service date is a calendar date distinct from the
// observation timestamp's date: trips running past midnight keep the
// previous day's service date.
func ServiceDateFromCompact(compact string) (string, error) {
	t, err := time.Parse("20060102", compact)
	if err != nil {
		return "", fmt.Errorf("invalid service date %q: %w", compact, err)
	}
	return t.Format("2006-01-02"), nil
}
