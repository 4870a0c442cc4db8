// Package authclient calls the Unseen Auth API and classifies every failure
// into an *Error before it reaches the caller.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	platformhttp "unseen/internal/platform/http"
)

// API paths.
const (
	PathSignup   = "/auth/signup"
	PathLogin    = "/auth/login"
	PathValidate = "/auth/validate"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// Client is a thin JSON client for the Auth API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default bounded HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    platformhttp.NewHTTPClient(platformhttp.DefaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}
	var res AuthResponse
	if err := c.post(ctx, PathLogin, loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	if err := checkAuthResponse(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SignUp registers a new account and returns its first session token.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	if err := validateSignUp(name, email, password); err != nil {
		return nil, err
	}
	var res AuthResponse
	if err := c.post(ctx, PathSignup, signUpRequest{Name: name, Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	if err := checkAuthResponse(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ValidateSession resolves token to its user. Any non-200 answer is reported as
// invalid credentials.
func (c *Client) ValidateSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, invalidCredentials()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PathValidate, nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, invalidCredentials()
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, invalidResponse(err)
	}
	if user.ID == "" {
		return nil, invalidResponse(errors.New("user id missing"))
	}
	return &user, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return invalidResponse(fmt.Errorf("encode request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		if err := json.Unmarshal(body, out); err != nil {
			return invalidResponse(err)
		}
		return nil
	case status == http.StatusUnauthorized:
		return invalidCredentials()
	case status >= 400 && status < 500:
		var m messageResponse
		if json.Unmarshal(body, &m) == nil && m.Message != "" {
			return validationError(m.Message)
		}
		return invalidCredentials()
	default:
		slog.Warn("auth API returned server error", "path", path, "status", status)
		return serverError(fmt.Errorf("%s: status %d", path, status))
	}
}

// do sends req and reads the body. Transport failures become KindNetwork.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, networkError(err)
	}
	return resp.StatusCode, body, nil
}

func checkAuthResponse(res *AuthResponse) error {
	if res.Token == "" || res.User.ID == "" {
		return invalidResponse(errors.New("token or user missing"))
	}
	return nil
}
