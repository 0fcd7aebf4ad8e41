// Package schedule resolves dated schedule snapshots, fetching the zipped
// archive through the response cache and decoding its tables into domain
// records. Archives for a given date never change, so they are cached with
// the long ttl.
package schedule
