// Package backendclient talks to the roster backend over HTTP JSON.
package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"panthers-signup/internal/domain/auth"
	"panthers-signup/internal/domain/listing"
	"panthers-signup/internal/domain/signup"
	apperrors "panthers-signup/pkg/errors"
)

const codeAlreadyAuthenticated = "already_authenticated"

// ErrorBody is the backend's error envelope.
type ErrorBody struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SubmitSignUp(ctx context.Context, req signup.Request) (signup.RecordID, error) {
	var out struct {
		ID signup.RecordID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/signups", "", req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) GetCapacity(ctx context.Context) ([]signup.PositionCapacity, error) {
	var out []signup.PositionCapacity
	if err := c.do(ctx, http.MethodGet, "/capacity", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAllSignUps(ctx context.Context, token string) ([]signup.Record, error) {
	var out []signup.Record
	if err := c.do(ctx, http.MethodGet, "/signups", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSignUp(ctx context.Context, token string, id signup.RecordID) (*signup.Record, error) {
	var out signup.Record
	path := "/signups/" + strconv.FormatUint(uint64(id), 10)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token. currentToken, when set, is
// presented so the backend can report an existing sign-in.
func (c *Client) Login(ctx context.Context, currentToken, username, password string) (string, error) {
	in := auth.LoginRequest{Username: username, Password: password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", currentToken, in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

func (c *Client) Whoami(ctx context.Context, token string) (*auth.Caller, error) {
	var out auth.Caller
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) IsCallerAdmin(ctx context.Context, token string) (bool, error) {
	var out struct {
		Admin bool `json:"admin"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/admin", token, nil, &out); err != nil {
		return false, err
	}
	return out.Admin, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb ErrorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Message == "" {
		eb.Message = strings.TrimSpace(string(raw))
	}
	if eb.Message == "" {
		eb.Message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewAuthenticationError(eb.Message)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.NewForbiddenError(eb.Message)
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(eb.Message)
	case eb.Code == codeAlreadyAuthenticated:
		return auth.ErrAlreadyAuthenticated
	}
	return &signup.BackendError{Status: resp.StatusCode, Code: eb.Code, Message: eb.Message}
}

var (
	_ signup.Backend  = (*Client)(nil)
	_ listing.Backend = (*Client)(nil)
	_ auth.Identity   = (*Client)(nil)
)
