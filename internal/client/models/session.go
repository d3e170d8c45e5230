// Package models defines the client-side data types of userdesk.
package models

import "time"

// Session is the locally persisted authentication state. The zero value is an
// absent session.
type Session struct {
	Token     string
	Username  string
	Present   bool
	ExpiresAt time.Time
}

// Token is the /token response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
