// Package sink commits batches of domain records to external write targets.
//
// Two interchangeable targets implement one contract: an object-store target
// writing the batch as a single delimited-text object, and a warehouse
// target streaming idempotent-keyed rows in bounded chunks with
// credential-refresh retry. Delivery is at-least-once; targets rely on
// insertion identifiers for deduplication, never on ordering.
package sink
