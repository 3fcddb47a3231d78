// Package main hosts the fwbids CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into Flywheel
// queries, heuristic-driven curation runs, sequence tabulation, and
// configuration scaffolding. It centralizes configuration resolution, client
// construction, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
