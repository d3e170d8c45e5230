package session

import (
	"context"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

type ctxKey struct{}

// WithSession returns a context carrying s.
func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session carried by ctx. ok is false when there is
// none or it is not present.
func FromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(models.Session)
	if !ok || !s.Present {
		return models.Session{}, false
	}
	return s, true
}
