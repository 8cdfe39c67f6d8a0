// Package client talks to the Messagely server over its JSON API and opens
// the local sqlite cache.
//
// Transport failures and gateway errors are reported as ErrUnavailable so
// callers can fall back to cached data; 401 responses as ErrUnauthorized.
// Other non-2xx responses become *APIError. Idempotent GETs are retried
// with exponential backoff while the server is unavailable.
package client
