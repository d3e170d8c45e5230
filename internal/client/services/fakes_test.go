package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/userdesk/internal/client/models"
)

// fakeClient implements client.Client and records every call.
type fakeClient struct {
	mu sync.Mutex

	TokenRet *models.Token
	TokenErr error
	MeRet    *models.UserRecord
	MeErr    error
	Users    []models.UserRecord
	ListErr  error
	RegErr   error
	UpdErr   error
	DelErr   error

	Calls       []string
	LastToken   string
	LastNewUser models.NewUser
	LastUpdate  models.UserUpdate
	LastDelete  string
	HadDeadline bool
}

func (f *fakeClient) record(ctx context.Context, name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
	f.LastToken = token
	_, f.HadDeadline = ctx.Deadline()
}

func (f *fakeClient) Token(ctx context.Context, username, password string) (*models.Token, error) {
	f.record(ctx, "token", "")
	return f.TokenRet, f.TokenErr
}

func (f *fakeClient) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	f.record(ctx, "me", token)
	return f.MeRet, f.MeErr
}

func (f *fakeClient) ListUsers(ctx context.Context, token string) ([]models.UserRecord, error) {
	f.record(ctx, "list", token)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]models.UserRecord(nil), f.Users...), nil
}

func (f *fakeClient) Register(ctx context.Context, token string, user models.NewUser) error {
	f.record(ctx, "register", token)
	f.LastNewUser = user
	return f.RegErr
}

func (f *fakeClient) UpdateUser(ctx context.Context, token string, update models.UserUpdate) error {
	f.record(ctx, "update", token)
	f.LastUpdate = update
	return f.UpdErr
}

func (f *fakeClient) DeleteUser(ctx context.Context, token string, username string) error {
	f.record(ctx, "delete", token)
	f.LastDelete = username
	return f.DelErr
}

// memStore is an in-memory SessionStore.
type memStore struct {
	sess     models.Session
	SetErr   error
	ClearErr error
	Clears   int
}

func (m *memStore) Set(ctx context.Context, token, identity string) (models.Session, error) {
	if m.SetErr != nil {
		return models.Session{}, m.SetErr
	}
	m.sess = models.Session{Token: token, Username: identity, Present: true}
	return m.sess, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.Clears++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.sess = models.Session{}
	return nil
}

func (m *memStore) Current(ctx context.Context) models.Session { return m.sess }
