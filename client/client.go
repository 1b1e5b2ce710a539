// Package client is a Go client for the contractdesk REST API. It mirrors
// the browser front end's behavior: bearer-token auth with a durable
// session, missing resources reported as empty results, and an expired
// session surfaced as a distinct error so callers can return to login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrSessionExpired reports that the server rejected the session token.
// The client clears the stored session before returning it.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-401 error response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionStore

	onSessionExpired func()

	token string
	user  *User
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithSessionStore sets where the session survives between runs. Defaults
// to in-memory, which lasts for the lifetime of the Client.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) {
		c.session = store
	}
}

// OnSessionExpired registers a callback that fires when the server rejects
// the session token, after the stored session has been cleared. UIs hook
// their return-to-login transition here.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    NewMemorySessionStore(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if token, user, err := c.session.Restore(); err == nil && token != "" {
		c.token = token
		c.user = user
	}

	return c
}

// Login authenticates and persists the session.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	payload := map[string]string{"username": username, "password": password}

	var res struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", payload, &res); err != nil {
		return nil, err
	}

	c.token = res.Token
	c.user = &res.User
	if err := c.session.Save(res.Token, &res.User); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &res.User, nil
}

// Logout drops the session locally. The token itself simply expires.
func (c *Client) Logout() error {
	c.token = ""
	c.user = nil
	return c.session.Clear()
}

// CurrentUser returns the logged-in user, or nil without a session.
func (c *Client) CurrentUser() *User {
	return c.user
}

// LoggedIn reports whether a session token is present. The token may still
// be rejected by the server; see ErrSessionExpired.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// do performs a JSON round trip. Responses map to the front end's
// conventions: 401 clears the session and returns ErrSessionExpired, 404
// and 204 are empty non-errors (found=false), other non-2xx statuses become
// an *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) (found bool, err error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return false, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return false, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return false, nil
	case resp.StatusCode >= 400:
		return false, apiErrorFromResponse(resp)
	}

	if out == nil {
		return true, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}

// roundTrip attaches the bearer token and handles session expiry. Callers
// own closing the response body.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && req.URL.Path != "/api/auth/login" {
		resp.Body.Close()
		c.token = ""
		c.user = nil
		if err := c.session.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear session: %w", err)
		}
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return nil, ErrSessionExpired
	}

	return resp, nil
}

func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func apiErrorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(raw))
	var decoded struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &decoded) == nil && decoded.Error != "" {
		message = decoded.Error
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}
