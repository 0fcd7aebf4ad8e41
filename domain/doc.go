// Package domain defines the normalized transit records produced by the
// ingest pipeline and the validation/filter rules that gate them.
//
// Records are constructed fresh per invocation from upstream data, never
// mutated afterwards, and handed to the storage sinks. Construction is
// explicit field-by-field parsing returning (record, error); nothing is
// assigned reflectively.
package domain
