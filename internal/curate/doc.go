// Package curate coordinates a BIDS curation run: resolve the project, fetch
// and filter its sessions, extract sequence metadata, classify it with the
// user-supplied heuristic, and hand every resulting destination to the apply
// layer in order.
//
// The orchestrator performs no retries and keeps no partial-success
// bookkeeping: the first error from any collaborator propagates to the
// caller, and destinations applied before the failure stay applied.
package curate
