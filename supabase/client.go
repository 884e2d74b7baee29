// Package supabase is a minimal client for the Supabase GoTrue auth REST
// API: email/password sign-up and sign-in, sign-out, and user lookup by
// access token. Authentication itself is entirely the provider's business.
package supabase

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

// ErrAuthFailed marks credentials or tokens the provider rejected, as
// opposed to transport or server failures.
var ErrAuthFailed = errors.New("supabase: authentication rejected")

// Client talks to one Supabase project's auth endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New returns a client for the project at baseURL. An empty URL or key
// yields an unconfigured client; callers check Configured before use.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether project URL and API key are both present.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// User is the provider's user record.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Name returns the profile name from metadata, falling back to the local
// part of the email address.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if name, ok := u.Metadata["name"].(string); ok && name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Session carries the issued tokens. Either token may be empty, e.g. when
// the project requires email confirmation before issuing a session.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// authPayload covers both GoTrue response shapes: a bare user object, or a
// session envelope with the user nested inside.
type authPayload struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *User          `json:"user"`
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Metadata     map[string]any `json:"user_metadata"`
}

func (p *authPayload) user() *User {
	if p.User != nil {
		return p.User
	}
	if p.ID == "" {
		return nil
	}
	return &User{ID: p.ID, Email: p.Email, Metadata: p.Metadata}
}

func (p *authPayload) session() *Session {
	return &Session{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

// SignUp registers a new user, storing name in the user metadata.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*User, *Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	var out authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &out); err != nil {
		return nil, nil, fmt.Errorf("SignUp: %w", err)
	}
	user := out.user()
	if user == nil {
		return nil, nil, fmt.Errorf("SignUp: %w: provider returned no user", ErrAuthFailed)
	}
	return user, out.session(), nil
}

// SignIn exchanges email/password credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, *Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out authPayload
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &out); err != nil {
		return nil, nil, fmt.Errorf("SignIn: %w", err)
	}
	user := out.user()
	if user == nil || out.AccessToken == "" {
		return nil, nil, fmt.Errorf("SignIn: %w: provider returned no session", ErrAuthFailed)
	}
	return user, out.session(), nil
}

// SignOut revokes the access token. A missing token is a no-op.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("SignOut: %w", err)
	}
	return nil
}

// User resolves the user behind an access token.
func (c *Client) User(ctx context.Context, accessToken string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &out); err != nil {
		return nil, fmt.Errorf("User: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("User: %w: provider returned no user", ErrAuthFailed)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	if !c.Configured() {
		return errors.New("client is not configured")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(data)
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
		default:
			return fmt.Errorf("provider error (%s): %s", resp.Status, msg)
		}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage digs the human-readable message out of the several error
// shapes GoTrue responds with.
func errorMessage(data []byte) string {
	var e struct {
		Msg         string `json:"msg"`
		Message     string `json:"message"`
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &e); err == nil {
		for _, s := range []string{e.Msg, e.Message, e.Description, e.Error} {
			if s != "" {
				return s
			}
		}
	}
	if len(data) > 0 {
		return string(data)
	}
	return "no error detail"
}
