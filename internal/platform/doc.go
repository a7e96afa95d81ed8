// Package platform is an HTTP client for the workflow-orchestration API.
//
// It covers the read surface the protocol server exposes (dashboard, flows,
// flow runs with logs, deployments, work pools, events, identity) plus one
// write operation, creating a flow run from a deployment. List operations
// speak the API's POST /<resource>/filter convention; the filter grammar
// (any_, like_, after_) passes through untouched so callers can express
// anything the API supports.
//
// Every operation returns a result envelope with success, payload and error
// fields instead of a Go error. The protocol layer serializes envelopes
// directly, so agent clients always receive a structured response even when
// the platform is unreachable. Secondary lookups inside an operation, such
// as resolving flow names for a deployment listing or fetching logs for a
// flow run, degrade gracefully rather than failing the whole call.
package platform
