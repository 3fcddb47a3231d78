// Package convert is the apply layer of curation: it turns one heuristic
// mapping entry into remote metadata writes that place the matched files
// under their BIDS destination, and records IntendedFor cross-references.
//
// Dry-run is honoured here, not in the orchestrator: with the flag set the
// same actions are computed and returned but no write reaches the client.
package convert
