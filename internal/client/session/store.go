// Package session owns the client's authentication state: the persisted
// session store and the context plumbing that carries a session into
// authenticated calls.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	sessionrepo "github.com/dmitrijs2005/userdesk/internal/client/repositories/session"
	"github.com/dmitrijs2005/userdesk/internal/dbx"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// Persisted keys. They are written and removed together.
const (
	KeyAccessToken = "access_token"
	KeyUsername    = "username"
	KeyLogged      = "logged"
)

var keys = []string{KeyAccessToken, KeyUsername, KeyLogged}

// ErrEmptyCredentials is returned by Set when token or identity is empty.
var ErrEmptyCredentials = errors.New("token and identity are required")

// Store persists a single session with a fixed time-to-live.
type Store struct {
	db     *sql.DB
	ttl    time.Duration
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(db *sql.DB, ttl time.Duration, logger logging.Logger, opts ...Option) *Store {
	s := &Store{db: db, ttl: ttl, now: time.Now, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Set stores token and identity, replacing any previous session. All three
// keys get the same expiry and are written in one transaction.
func (s *Store) Set(ctx context.Context, token, identity string) (models.Session, error) {
	if token == "" || identity == "" {
		return models.Session{}, ErrEmptyCredentials
	}

	expiresAt := s.now().Add(s.ttl)
	values := map[string]string{
		KeyAccessToken: token,
		KeyUsername:    identity,
		KeyLogged:      "true",
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := sessionrepo.NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := repo.Set(ctx, k, values[k], expiresAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	return models.Session{Token: token, Username: identity, Present: true, ExpiresAt: expiresAt}, nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *Store) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := sessionrepo.NewSQLiteRepository(tx)
		for _, k := range keys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the stored session, or the zero Session when any key is
// missing or expired. Read errors are logged and reported as absence.
func (s *Store) Current(ctx context.Context) models.Session {
	items, err := sessionrepo.NewSQLiteRepository(s.db).List(ctx, s.now())
	if err != nil {
		s.logger.Error(ctx, "reading session failed", "error", err)
		return models.Session{}
	}

	token, okToken := items[KeyAccessToken]
	user, okUser := items[KeyUsername]
	logged, okLogged := items[KeyLogged]
	if !okToken || !okUser || !okLogged || logged.Value != "true" || token.Value == "" || user.Value == "" {
		return models.Session{}
	}

	expiresAt := token.ExpiresAt
	for _, it := range []sessionrepo.Item{user, logged} {
		if it.ExpiresAt.Before(expiresAt) {
			expiresAt = it.ExpiresAt
		}
	}

	return models.Session{Token: token.Value, Username: user.Value, Present: true, ExpiresAt: expiresAt}
}

// Purge drops expired rows left behind by earlier runs.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	n, err := sessionrepo.NewSQLiteRepository(s.db).Purge(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug(ctx, "expired session rows purged", "count", n)
	}
	return n, nil
}
