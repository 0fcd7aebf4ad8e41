// Package tabular parses delimited text with a header row into field-keyed
// records, collecting every row-level error before failing.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one data row keyed by header names.
type Row map[string]string

// ParseError aggregates every malformed row found in one parse pass, so a
// bad feed surfaces all of its problems at once.
type ParseError struct {
	Errors []error
}

func (e *ParseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d malformed rows: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Parse reads text as comma-delimited data. The first row is the header;
// each subsequent row becomes a Row keyed by header names. Fully blank rows
// are skipped. Any malformed row makes the whole parse fail with a
// *ParseError once all rows have been examined.
func Parse(text string) ([]Row, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &ParseError{Errors: []error{fmt.Errorf("header: %w", err)}}
	}

	var rows []Row
	var rowErrs []error
	line := 1
	for {
		line++
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", line, err))
			continue
		}
		if blank(rec) {
			continue
		}
		if len(rec) != len(header) {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %d fields, header has %d", line, len(rec), len(header)))
			continue
		}
		row := make(Row, len(header))
		for i, h := range header {
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	if len(rowErrs) > 0 {
		return nil, &ParseError{Errors: rowErrs}
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
