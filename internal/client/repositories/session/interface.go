package session

import (
	"context"
	"time"
)

// Item is one stored key with its expiry.
type Item struct {
	Key       string
	Value     string
	ExpiresAt time.Time
}

// Repository is a key/value store whose entries expire. Reads take the
// current time so that expired rows are never returned.
type Repository interface {
	Set(ctx context.Context, key, value string, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, now time.Time) (map[string]Item, error)
	Purge(ctx context.Context, now time.Time) (int64, error)
}
