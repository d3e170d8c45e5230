package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/logging"
)

// Logouter ends the local session.
type Logouter interface {
	Logout(ctx context.Context) error
}

// DirectoryService is the CRUD facade over the remote user directory. The
// session is taken from the context of each call. It keeps no copy of the
// directory: after a mutation callers list again.
type DirectoryService struct {
	client  client.Client
	auth    Logouter
	timeout time.Duration
	logger  logging.Logger
}

func NewDirectoryService(c client.Client, auth Logouter, timeout time.Duration, logger logging.Logger) *DirectoryService {
	return &DirectoryService{client: c, auth: auth, timeout: timeout, logger: logger}
}

// List returns a fresh snapshot of the directory.
func (d *DirectoryService) List(ctx context.Context) ([]models.UserRecord, error) {
	var users []models.UserRecord
	err := d.call(ctx, "list users", func(ctx context.Context, token string) error {
		var err error
		users, err = d.client.ListUsers(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create registers a new user on behalf of the operator.
func (d *DirectoryService) Create(ctx context.Context, user models.NewUser) error {
	return d.call(ctx, "create user", func(ctx context.Context, token string) error {
		return d.client.Register(ctx, token, user)
	})
}

// Update changes email and image. The payload type has no password field.
func (d *DirectoryService) Update(ctx context.Context, update models.UserUpdate) error {
	return d.call(ctx, "update user", func(ctx context.Context, token string) error {
		return d.client.UpdateUser(ctx, token, update)
	})
}

// Delete removes username. The server refuses to delete the caller.
func (d *DirectoryService) Delete(ctx context.Context, username string) error {
	return d.call(ctx, "delete user", func(ctx context.Context, token string) error {
		return d.client.DeleteUser(ctx, token, username)
	})
}

// call runs fn with the session token under the request timeout. Without a
// session nothing is sent. A token the server rejects ends the local session.
func (d *DirectoryService) call(ctx context.Context, name string, fn func(ctx context.Context, token string) error) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return fmt.Errorf("%s: %w", name, client.ErrUnauthorized)
	}

	tctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := fn(tctx, sess.Token)
	if err == nil {
		d.logger.Debug(ctx, name+" succeeded")
		return nil
	}

	if errors.Is(err, client.ErrUnauthorized) {
		d.logger.Warn(ctx, "session rejected by server, logging out", "username", sess.Username)
		if lerr := d.auth.Logout(ctx); lerr != nil {
			d.logger.Error(ctx, "forced logout failed", "error", lerr)
		}
	} else {
		d.logger.Warn(ctx, name+" failed", "error", err)
	}
	return fmt.Errorf("%s: %w", name, err)
}
