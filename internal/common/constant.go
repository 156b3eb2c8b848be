// Package common holds error kinds and constants shared by the portal's
// server and client.
package common

// AuthorizationHeader and BearerPrefix describe how access tokens travel.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// RequestIDHeader carries the per-request identifier assigned by the server.
const RequestIDHeader = "X-Request-ID"
