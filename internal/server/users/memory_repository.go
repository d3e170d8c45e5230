package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/common"
)

// InMemoryRepository keeps users in insertion order. Callers always get
// copies, so stored users are never mutated from outside.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
	order []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

func clone(u *User) *User {
	c := *u
	c.Salt = append([]byte(nil), u.Salt...)
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.users[user.Username] = clone(user)
	r.order = append(r.order, user.Username)
	return clone(user), nil
}

func (r *InMemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*User, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, clone(r.users[name]))
	}
	return out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; !ok {
		return common.ErrorNotFound
	}
	r.users[user.Username] = clone(user)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, login string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[login]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, login)
	for i, name := range r.order {
		if name == login {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
