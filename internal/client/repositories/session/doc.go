// Package session persists the client session as expiring key/value rows in
// the local SQLite database. Expiry is stored as Unix nanoseconds.
package session
