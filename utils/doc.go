// Package utils provides internal utility functions for the transit-ingest
// pipeline. This package is not intended to be imported by external code.
//
// It contains:
//   - Time formatting and conversion utilities
//   - Service-date handling for late-night trips
package utils
