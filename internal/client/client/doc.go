// Package client is the transport layer between userdesk and the remote
// user-management API.
//
// # Overview
//
//  1. Client is the transport-agnostic contract: token exchange, profile,
//     list, register, update and delete.
//  2. HTTPClient implements it over REST/JSON. Every call carries a fresh
//     X-Request-ID and, when authenticated, an Authorization bearer header.
//  3. InitDatabase and RunMigrations open the local SQLite state database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Failures are reported as one of a closed set of sentinel kinds, matched
// with errors.Is: ErrInvalidCredentials, ErrUnavailable, ErrUnauthorized,
// ErrForbiddenSelfDelete, ErrConflict and ErrValidation. Server responses are
// wrapped in *APIError, which unwraps to its kind and keeps the status code and
// any detail message the server sent. Classify is the single place where
// status codes are mapped to kinds.
//
// Deadlines come from the caller's context; HTTPClient sets no timeout of its
// own and never retries.
package client
