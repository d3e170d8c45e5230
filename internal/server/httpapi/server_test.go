package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/dmitrijs2005/userdesk/internal/server/config"
	"github.com/dmitrijs2005/userdesk/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	us := users.NewService(users.NewInMemoryRepository(), cfg)
	for _, name := range []string{"admin", "bob"} {
		_, err := us.Register(context.Background(), users.NewUser{Username: name, Email: name + "@example.com", Password: name + "pass"})
		require.NoError(t, err)
	}

	return NewHTTPServer(":0", logging.Discard(), us)
}

func do(t *testing.T, s *HTTPServer, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func login(t *testing.T, s *HTTPServer, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec, body := do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bearer", body["token_type"])
	return body["access_token"].(string)
}

func authed(method, target, token string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestToken(t *testing.T) {
	s := newTestServer(t)
	assert.NotEmpty(t, login(t, s, "admin", "adminpass"))

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec, body := do(t, s, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect username or password", body["detail"])
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	for _, req := range []*http.Request{
		authed(http.MethodGet, "/users", "", ""),
		authed(http.MethodGet, "/users/me", "", ""),
		authed(http.MethodPost, "/update", "", `{"username":"bob","email":"x@x.io"}`),
		authed(http.MethodDelete, "/delete_user?username=bob", "", ""),
		authed(http.MethodGet, "/users", "not-a-token", ""),
	} {
		rec, body := do(t, s, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.URL.String())
		assert.NotEmpty(t, body["detail"])
	}
}

func TestMeAndList(t *testing.T) {
	s := newTestServer(t)
	tok := login(t, s, "bob", "bobpass")

	rec, body := do(t, s, authed(http.MethodGet, "/users/me", tok, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", body["username"])
	assert.Equal(t, "bob@example.com", body["email"])

	rec, body = do(t, s, authed(http.MethodGet, "/users", tok, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["users_data"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "admin", list[0].(map[string]any)["username"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	tok := login(t, s, "bob", "bobpass")

	req := authed(http.MethodGet, "/users", tok, "")
	req.Header.Set("X-Request-ID", "req-42")
	rec, _ := do(t, s, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	// anonymous self-service
	rec, _ := do(t, s, authed(http.MethodPost, "/register", "", `{"username":"carol","email":"c@x.io","password":"secret1","image_base64":""}`))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// duplicate
	rec, body := do(t, s, authed(http.MethodPost, "/register", "", `{"username":"carol","email":"c@x.io","password":"secret1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already registered", body["detail"])

	// by an admin
	tok := login(t, s, "admin", "adminpass")
	rec, _ = do(t, s, authed(http.MethodPost, "/register", tok, `{"username":"dave","email":"d@x.io","password":"secret1"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// a bad token is rejected rather than treated as anonymous
	rec, _ = do(t, s, authed(http.MethodPost, "/register", "bad", `{"username":"eve","email":"e@x.io","password":"secret1"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, authed(http.MethodPost, "/register", "", `{"username":"frank"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.NotEmpty(t, login(t, s, "carol", "secret1"))
}

func TestUpdate(t *testing.T) {
	s := newTestServer(t)
	tok := login(t, s, "admin", "adminpass")

	rec, _ := do(t, s, authed(http.MethodPost, "/update", tok, `{"username":"bob","email":"bob@new.io","image_base64":"data:image/png;base64,AA=="}`))
	require.Equal(t, http.StatusOK, rec.Code)

	bobTok := login(t, s, "bob", "bobpass")
	_, body := do(t, s, authed(http.MethodGet, "/users/me", bobTok, ""))
	assert.Equal(t, "bob@new.io", body["email"])
	assert.Equal(t, "data:image/png;base64,AA==", body["image_base64"])

	rec, _ = do(t, s, authed(http.MethodPost, "/update", tok, `{"username":"ghost","email":"g@x.io"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete(t *testing.T) {
	s := newTestServer(t)
	tok := login(t, s, "admin", "adminpass")

	rec, body := do(t, s, authed(http.MethodDelete, "/delete_user?username=admin", tok, ""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You cannot delete yourself", body["detail"])

	rec, _ = do(t, s, authed(http.MethodDelete, "/delete_user?username=bob", tok, ""))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, s, authed(http.MethodDelete, "/delete_user?username=bob", tok, ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, authed(http.MethodDelete, "/delete_user", tok, ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body["detail"])
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	s.address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
