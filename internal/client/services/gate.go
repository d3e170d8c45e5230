package services

import (
	"context"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	Current(ctx context.Context) models.Session
}

// Gate decides whether protected commands may run. It only reads local
// state and never calls the server.
type Gate struct {
	store SessionReader
}

func NewGate(store SessionReader) *Gate {
	return &Gate{store: store}
}

// Allow reports whether a session is present.
func (g *Gate) Allow(ctx context.Context) bool {
	return g.store.Current(ctx).Present
}

// Enter returns ctx carrying the current session, or false when there is
// none.
func (g *Gate) Enter(ctx context.Context) (context.Context, bool) {
	sess := g.store.Current(ctx)
	if !sess.Present {
		return ctx, false
	}
	return session.WithSession(ctx, sess), true
}
