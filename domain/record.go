package domain

// Record is the contract every domain type offers the storage sinks.
type Record interface {
	// InsertKey is the idempotent insertion identifier for warehouse
	// deduplication, or "" when the record has no natural key and the sink
	// should derive one from the serialized content.
	InsertKey() string
	// Columns and Row give the delimited-text encoding used by the
	// object-store target. Row values align with Columns.
	Columns() []string
	Row() []string
}

// AsRecords widens a concrete record slice for the sink contract.
func AsRecords[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
