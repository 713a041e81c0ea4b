package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is the REST client for the portal backend. All calls carry the
// bearer token resolved by the AuthContext.
type Client struct {
	base string
	http *http.Client
	auth *AuthContext
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(baseURL string, auth *AuthContext, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		auth: auth,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Auth exposes the auth context bound to this client.
func (c *Client) Auth() *AuthContext { return c.auth }

// Tickets returns the ticket gateway.
func (c *Client) Tickets() *TicketGateway { return &TicketGateway{c: c} }

// Reports returns the report gateway for a report domain ("tickets", "users").
func (c *Client) Reports(domain string) *ReportGateway {
	return &ReportGateway{c: c, domain: domain}
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	} `json:"user"`
}

// Login performs credential login and installs the resulting custom session,
// which takes precedence over any SSO session.
func (c *Client) Login(ctx context.Context, username, password string) (Identity, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return Identity{}, &ValidationError{Field: "credentials", Reason: "username and password required"}
	}
	var resp loginResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return Identity{}, err
	}
	id := Identity{Username: resp.User.Username, Roles: resp.User.Roles}
	c.auth.SetCustomSession(resp.Token, id)
	return id, nil
}

// Me fetches the canonical identity for the current bearer token.
func (c *Client) Me(ctx context.Context) (Identity, error) {
	var resp struct {
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return Identity{}, err
	}
	return Identity{Username: resp.Username, Roles: resp.Roles}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.do(req, method+" "+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRaw performs a request and returns the raw body and content type.
func (c *Client) doRaw(ctx context.Context, method, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.do(req, method+" "+path)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Op: method + " " + path, Err: err}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// do executes the request, applies the bearer token and maps failures to the
// client error taxonomy. A returned *http.Response is always 2xx.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	if tok := c.auth.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitedError{Op: op}
	}
	return nil, &ServerError{Op: op, StatusCode: resp.StatusCode, Message: readServerMessage(resp.Body)}
}

func readServerMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
