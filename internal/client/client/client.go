package client

import (
	"context"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// Client is the remote user-management API. An empty token on Register means
// self-service sign-up.
type Client interface {
	Token(ctx context.Context, username, password string) (*models.Token, error)
	Me(ctx context.Context, token string) (*models.UserRecord, error)
	ListUsers(ctx context.Context, token string) ([]models.UserRecord, error)
	Register(ctx context.Context, token string, user models.NewUser) error
	UpdateUser(ctx context.Context, token string, update models.UserUpdate) error
	DeleteUser(ctx context.Context, token string, username string) error
}
