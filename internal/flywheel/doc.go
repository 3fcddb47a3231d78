// Package flywheel provides the HTTP client for the remote research-data
// management service.
//
// The Client interface covers the read and write operations curation needs:
// resolving a project by label, listing sessions and acquisitions, and
// updating per-file metadata. HTTPClient is the production implementation;
// tests substitute fakes that trip on unexpected writes.
package flywheel
