// Package services contains the application services of the userdesk
// client: authentication, the gated directory, and the gate itself.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// MinPasswordLength applies to self-service registration.
const MinPasswordLength = 6

// SessionStore is the part of session.Store the services rely on.
type SessionStore interface {
	Set(ctx context.Context, token, identity string) (models.Session, error)
	Clear(ctx context.Context) error
	Current(ctx context.Context) models.Session
}

// AuthService exchanges credentials for a session and ends it.
type AuthService struct {
	client  client.Client
	store   SessionStore
	timeout time.Duration
	logger  logging.Logger
}

func NewAuthService(c client.Client, store SessionStore, logger logging.Logger) *AuthService {
	return &AuthService{client: c, store: store, timeout: config.LoginTimeout, logger: logger}
}

// Login authenticates against the server and persists the session. Both
// fields must be non-empty. The exchange is bounded by config.LoginTimeout
// and never retried.
func (a *AuthService) Login(ctx context.Context, username, password string) (models.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.Session{}, client.Invalid("Please fill out both fields")
	}

	tctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	tok, err := a.client.Token(tctx, username, password)
	if err != nil {
		if errors.Is(err, client.ErrInvalidCredentials) {
			a.logger.Info(ctx, "login rejected", "username", username)
		} else {
			a.logger.Warn(ctx, "login failed", "username", username, "error", err)
		}
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	if !strings.EqualFold(tok.TokenType, common.BearerTokenType) || tok.AccessToken == "" {
		a.logger.Warn(ctx, "unexpected token response", "token_type", tok.TokenType)
		return models.Session{}, &client.APIError{Op: client.OpToken, Kind: client.ErrUnavailable, Detail: "unexpected token type"}
	}

	sess, err := a.store.Set(ctx, tok.AccessToken, username)
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	a.logger.Info(ctx, "authenticated", "username", username)
	return sess, nil
}

// Logout forgets the local session. No call is made to the server.
func (a *AuthService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.logger.Info(ctx, "unauthenticated")
	return nil
}

// Register creates an account without a token. Username and email are
// trimmed; the password must be confirmed and at least MinPasswordLength
// long; a pending image rejection blocks the call.
func (a *AuthService) Register(ctx context.Context, reg models.Registration) error {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	switch {
	case reg.Username == "" || reg.Email == "" || reg.Password == "" || reg.ConfirmPassword == "":
		return client.Invalid("Please fill out all fields")
	case reg.Password != reg.ConfirmPassword:
		return client.Invalid("Passwords do not match")
	case len(reg.Password) < MinPasswordLength:
		return client.Invalid(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	case reg.ImageErr != nil:
		return reg.ImageErr
	}

	tctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.client.Register(tctx, "", reg.NewUser()); err != nil {
		a.logger.Warn(ctx, "registration failed", "username", reg.Username, "error", err)
		return fmt.Errorf("register: %w", err)
	}

	a.logger.Info(ctx, "registered", "username", reg.Username)
	return nil
}

// Profile fetches the record of the session's own user. A token the server
// rejects ends the local session.
func (a *AuthService) Profile(ctx context.Context) (*models.UserRecord, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("profile: %w", client.ErrUnauthorized)
	}

	tctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rec, err := a.client.Me(tctx, sess.Token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.forceLogout(ctx)
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	return rec, nil
}

func (a *AuthService) forceLogout(ctx context.Context) {
	a.logger.Warn(ctx, "session rejected by server, logging out")
	if err := a.Logout(ctx); err != nil {
		a.logger.Error(ctx, "forced logout failed", "error", err)
	}
}
