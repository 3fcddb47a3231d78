// Package audit persists a local record of curation runs and the per-file
// actions they performed (or planned, for dry runs) in a SQLite database.
// The store is optional and never consulted by the curation flow itself; it
// exists so operators can review what a run changed after the fact.
package audit
