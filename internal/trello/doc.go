// Package trello provides an authenticated client for the Trello REST API.
//
// The client builds requests against the fixed Trello origin, merges the
// API key and token into each call (query parameters for GET, form body
// for every other method), and normalizes responses into an Envelope: the
// decoded JSON payload, or a raw-text fallback when the upstream returned
// a successful but non-JSON body.
//
// Failures are classified into three distinguishable types: ConfigError
// (missing credential, fatal), APIError (non-2xx upstream response, carries
// the status code and raw body), and TransportError (network-level
// failure). No call is ever retried.
package trello
