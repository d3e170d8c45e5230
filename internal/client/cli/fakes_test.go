package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/client/client"
	"github.com/dmitrijs2005/userdesk/internal/client/config"
	"github.com/dmitrijs2005/userdesk/internal/client/imagex"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/client/services"
	"github.com/dmitrijs2005/userdesk/internal/client/session"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/stretchr/testify/require"
)

type serverUser struct {
	rec      models.UserRecord
	password string
}

// fakeServer is an in-memory client.Client that behaves like the remote API.
// Tokens are "tok-<username>".
type fakeServer struct {
	users   []serverUser
	revoked map[string]bool
	calls   map[string]int
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		users: []serverUser{
			{rec: models.UserRecord{Username: "admin", Email: "admin@example.com"}, password: "adminpass"},
			{rec: models.UserRecord{Username: "bob", Email: "bob@example.com"}, password: "bobpass"},
		},
		revoked: map[string]bool{},
		calls:   map[string]int{},
	}
}

func (s *fakeServer) index(username string) int {
	for i, u := range s.users {
		if u.rec.Username == username {
			return i
		}
	}
	return -1
}

func (s *fakeServer) identity(op client.Op, token string) (string, error) {
	u, ok := strings.CutPrefix(token, "tok-")
	if !ok || s.revoked[u] || s.index(u) < 0 {
		return "", &client.APIError{Op: op, Kind: client.ErrUnauthorized, Status: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	}
	return u, nil
}

func (s *fakeServer) Token(_ context.Context, username, password string) (*models.Token, error) {
	s.calls["token"]++
	if i := s.index(username); i >= 0 && s.users[i].password == password {
		return &models.Token{AccessToken: "tok-" + username, TokenType: "bearer"}, nil
	}
	return nil, &client.APIError{Op: client.OpToken, Kind: client.ErrInvalidCredentials, Status: http.StatusUnauthorized, Detail: "Incorrect username or password"}
}

func (s *fakeServer) Me(_ context.Context, token string) (*models.UserRecord, error) {
	s.calls["me"]++
	u, err := s.identity(client.OpProfile, token)
	if err != nil {
		return nil, err
	}
	rec := s.users[s.index(u)].rec
	return &rec, nil
}

func (s *fakeServer) ListUsers(_ context.Context, token string) ([]models.UserRecord, error) {
	s.calls["list"]++
	if _, err := s.identity(client.OpList, token); err != nil {
		return nil, err
	}
	out := make([]models.UserRecord, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.rec)
	}
	return out, nil
}

func (s *fakeServer) Register(_ context.Context, token string, user models.NewUser) error {
	s.calls["register"]++
	if token != "" {
		if _, err := s.identity(client.OpRegister, token); err != nil {
			return err
		}
	}
	if s.index(user.Username) >= 0 {
		return &client.APIError{Op: client.OpRegister, Kind: client.ErrConflict, Status: http.StatusBadRequest, Detail: "Username already registered"}
	}
	s.users = append(s.users, serverUser{
		rec:      models.UserRecord{Username: user.Username, Email: user.Email, ImageData: user.ImageData},
		password: user.Password,
	})
	return nil
}

func (s *fakeServer) UpdateUser(_ context.Context, token string, update models.UserUpdate) error {
	s.calls["update"]++
	if _, err := s.identity(client.OpUpdate, token); err != nil {
		return err
	}
	i := s.index(update.Username)
	if i < 0 {
		return &client.APIError{Op: client.OpUpdate, Kind: client.ErrUnavailable, Status: http.StatusNotFound, Detail: "User not found"}
	}
	s.users[i].rec.Email = update.Email
	s.users[i].rec.ImageData = update.ImageData
	return nil
}

func (s *fakeServer) DeleteUser(_ context.Context, token string, username string) error {
	s.calls["delete"]++
	me, err := s.identity(client.OpDelete, token)
	if err != nil {
		return err
	}
	if me == username {
		return &client.APIError{Op: client.OpDelete, Kind: client.ErrForbiddenSelfDelete, Status: http.StatusForbidden, Detail: "You cannot delete yourself"}
	}
	i := s.index(username)
	if i < 0 {
		return &client.APIError{Op: client.OpDelete, Kind: client.ErrUnavailable, Status: http.StatusNotFound, Detail: "User not found"}
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return nil
}

// newTestApp wires an App over real services, a temp SQLite session store
// and fakeServer. input feeds every prompt.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer, *fakeServer) {
	t.Helper()

	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.Discard()
	srv := newFakeServer()
	store := session.NewStore(db, config.SessionTTL, logger)
	auth := services.NewAuthService(srv, store, logger)

	var out bytes.Buffer
	a := &App{
		config:    &config.Config{RequestTimeout: 5 * time.Second},
		logger:    logger,
		auth:      auth,
		directory: services.NewDirectoryService(srv, auth, 5*time.Second, logger),
		gate:      services.NewGate(store),
		sessions:  store,
		images:    imagex.NewIngestor(),
		reader:    rdr(input),
		out:       &out,
	}
	return a, &out, srv
}

// stubPasswords makes getPassword return pws in order, then io.EOF.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })

	getPassword = func(string, io.Writer) ([]byte, error) {
		if len(pws) == 0 {
			return nil, io.EOF
		}
		p := pws[0]
		pws = pws[1:]
		return []byte(p), nil
	}
}

func loginAs(t *testing.T, a *App, username, password string) {
	t.Helper()
	_, err := a.auth.Login(context.Background(), username, password)
	require.NoError(t, err)
}
