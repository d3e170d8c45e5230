// Package common contains constants, sentinel errors and small helpers shared
// by the userdesk client and the reference server.
package common

const (
	// AuthorizationHeaderName carries the bearer access token.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName correlates a client call with server log records.
	RequestIDHeaderName = "X-Request-ID"

	// BearerTokenType is the only token type the API issues.
	BearerTokenType = "bearer"
)
