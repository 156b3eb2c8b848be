// Package client is the feedback portal's HTTP client and local store.
//
// HTTPClient implements Client over the REST API. Every call attaches the
// current bearer token from a TokenSource and normalizes failures:
//
//   - a 401 on an authenticated call is an *UnauthorizedError carrying the
//     token that was rejected; it matches ErrUnauthorized with errors.Is,
//   - other non-2xx responses are *APIError values whose message is the
//     backend's "detail" or "request failed with status N",
//   - transport failures wrap ErrNoResponse.
//
// The client has no navigation side effects. Session teardown on 401 is the
// job of the session package.
//
// InitDatabase opens the SQLite store that persists the session token.
package client
