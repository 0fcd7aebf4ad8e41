// Package realtime fetches and decodes the GTFS-Realtime feed and
// normalizes vehicle positions and service alerts into domain records.
//
// Decode policy: a feed-level protobuf decode failure aborts the fetch; an
// individually malformed entity (unparseable id, missing trip descriptor,
// bad start date) is skipped with a warning and the rest of the batch is
// processed.
package realtime
