package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mzaikin/caseport/internal/client/models"
)

// HTTPClient implements Client over the platform's HTTP/JSON API.
//
// The bearer token is held by the transport client and attached to every
// request once set, mirroring how the server treats its presence as the only
// proof of an authenticated session.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://localhost:8000/api"). The underlying http.Client enforces no
// timeout of its own; callers bound requests through the context.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

type sendInviteRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (c *HTTPClient) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	var user models.User
	req := registerRequest{Email: email, Password: password, FullName: fullName}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", nil, err
	}
	c.SetToken(resp.AccessToken)
	return resp.AccessToken, &resp.User, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) VerifyInvite(ctx context.Context, inviteToken string) (*models.Invite, error) {
	var invite models.Invite
	err := c.do(ctx, http.MethodGet, "/invites/invite/"+inviteToken, nil, &invite)
	if err != nil {
		var apiErr *APIError
		// The server reports unknown, consumed and expired tokens as plain
		// domain rejections; collapse them all into one outcome.
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: %s", ErrInviteInvalid, apiErr.Reason)
		}
		return nil, err
	}
	return &invite, nil
}

func (c *HTTPClient) SendInvite(ctx context.Context, email string, role models.Role) error {
	return c.do(ctx, http.MethodPost, "/invites/send-invite", sendInviteRequest{Email: email, Role: role}, nil)
}

func (c *HTTPClient) ClientHome(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/client-home", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) FeeEarnerHome(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/fee-earner-home", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do performs one JSON exchange. A non-2xx answer becomes an *APIError with
// the server's "detail" string; a failed exchange becomes ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Cancellation is the caller navigating away, not a server fault.
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.rejectionError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) rejectionError(resp *http.Response) error {
	var body errorResponse
	reason := ""
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		reason = body.Detail
	}
	return &APIError{Status: resp.StatusCode, Reason: reason}
}
