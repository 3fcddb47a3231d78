// Package query extracts per-scan sequence metadata (SeqInfo records) from
// the acquisitions of a set of sessions. SeqInfo is the sole input heuristics
// classify on, so this package is read-only with respect to the remote
// service.
package query
