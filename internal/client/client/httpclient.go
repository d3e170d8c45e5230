package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/userdesk/internal/buildinfo"
	"github.com/dmitrijs2005/userdesk/internal/client/models"
	"github.com/dmitrijs2005/userdesk/internal/common"
	"github.com/dmitrijs2005/userdesk/internal/logging"
	"github.com/google/uuid"
)

// maxResponseSize caps how much of a response body is read. Directory
// listings carry inline images, so the cap is generous.
const maxResponseSize = 64 << 20

// newRequestID is a test seam for request id generation.
var newRequestID = uuid.NewString

// HTTPClient implements Client over the REST/JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for server. A missing scheme defaults to
// http://. The underlying http.Client has no timeout; deadlines come from
// the context of each call.
func NewHTTPClient(server string, logger logging.Logger) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  logger,
	}
}

// BaseURL returns the normalized server URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Token exchanges credentials for an access token. The form is sent
// url-encoded, as the API requires.
func (c *HTTPClient) Token(ctx context.Context, username, password string) (*models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.Token
	err := c.do(ctx, call{
		op:          OpToken,
		method:      http.MethodPost,
		path:        "/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		out:         &tok,
	})
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	var rec models.UserRecord
	err := c.do(ctx, call{op: OpProfile, method: http.MethodGet, path: "/users/me", token: token, out: &rec})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type usersResponse struct {
	UsersData []models.UserRecord `json:"users_data"`
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]models.UserRecord, error) {
	var resp usersResponse
	err := c.do(ctx, call{op: OpList, method: http.MethodGet, path: "/users", token: token, out: &resp})
	if err != nil {
		return nil, err
	}
	if resp.UsersData == nil {
		return []models.UserRecord{}, nil
	}
	return resp.UsersData, nil
}

func (c *HTTPClient) Register(ctx context.Context, token string, user models.NewUser) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return c.do(ctx, call{
		op:          OpRegister,
		method:      http.MethodPost,
		path:        "/register",
		token:       token,
		body:        bytes.NewReader(body),
		contentType: "application/json",
	})
}

func (c *HTTPClient) UpdateUser(ctx context.Context, token string, update models.UserUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}
	return c.do(ctx, call{
		op:          OpUpdate,
		method:      http.MethodPost,
		path:        "/update",
		token:       token,
		body:        bytes.NewReader(body),
		contentType: "application/json",
	})
}

func (c *HTTPClient) DeleteUser(ctx context.Context, token string, username string) error {
	q := url.Values{}
	q.Set("username", username)
	return c.do(ctx, call{
		op:     OpDelete,
		method: http.MethodDelete,
		path:   "/delete_user?" + q.Encode(),
		token:  token,
	})
}

type call struct {
	op          Op
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
	out         any
}

func (c *HTTPClient) do(ctx context.Context, cl call) error {
	requestID := newRequestID()
	log := c.logger.With("request_id", requestID, "op", string(cl.op))

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("User-Agent", "userdesk/"+buildinfo.Version())
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+cl.token)
	}

	log.Debug(ctx, "request started", "method", cl.method, "path", req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "method", cl.method, "path", req.URL.Path, "error", err)
		return &APIError{Op: cl.op, Kind: ErrUnavailable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return &APIError{Op: cl.op, Kind: ErrUnavailable, Status: resp.StatusCode, Err: err}
	}

	log.Debug(ctx, "request completed", "method", cl.method, "path", req.URL.Path, "status", resp.StatusCode)

	if err := Classify(cl.op, resp.StatusCode, body); err != nil {
		return err
	}

	if cl.out == nil {
		return nil
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		log.Warn(ctx, "malformed response body", "status", resp.StatusCode, "error", err)
		return &APIError{Op: cl.op, Kind: ErrUnavailable, Status: resp.StatusCode, Detail: "malformed response", Err: err}
	}
	return nil
}
