package users

import (
	"context"
)

// Repository stores users keyed by username. Lookups of unknown users return
// common.ErrorNotFound; creating a taken username returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetUserByLogin(ctx context.Context, login string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, login string) error
}
