package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/diarify/internal/client/models"
	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/logging"
)

// SignInRoute is where the client sends the user when the session expires.
const SignInRoute = "/auth/signin"

// Credentials is the durable credential/session storage used by the client.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, user models.User) error
	Clear(ctx context.Context) error
}

// Navigator receives the redirect issued on session expiry.
type Navigator interface {
	Navigate(route string)
}

// Request describes an outbound call. The zero value is a bodyless GET.
type Request struct {
	Method string
	Body   io.Reader
	Header http.Header
}

// JSON returns a Request with v encoded as the body.
func JSON(method string, v any) (Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Request{}, fmt.Errorf("encode request: %w", err)
	}
	return Request{Method: method, Body: bytes.NewReader(b)}, nil
}

// Client talks to the Diarify REST API. It attaches the stored credential
// to authenticated calls and ends the session when the server answers 401.
type Client struct {
	baseURL  *url.URL
	mediaURL *url.URL
	http     *http.Client
	creds    Credentials
	nav      Navigator
	log      logging.Logger
}

// Option customizes a Client built by New.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request by d.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithLogger sets the logger for request failures.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithNavigator sets who receives the sign-in redirect on session expiry.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// New builds a client for the API rooted at baseURL. mediaURL is where
// diary images are served from; when empty it defaults to baseURL.
func New(baseURL, mediaURL string, creds Credentials, opts ...Option) (*Client, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	media := base
	if mediaURL != "" {
		if media, err = parseBase(mediaURL); err != nil {
			return nil, fmt.Errorf("media base url: %w", err)
		}
	}

	c := &Client{
		baseURL:  base,
		mediaURL: media,
		http:     &http.Client{Timeout: 30 * time.Second},
		creds:    creds,
		log:      logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SetNavigator replaces the navigator. The router is usually built after
// the client, so it is attached here.
func (c *Client) SetNavigator(n Navigator) {
	c.nav = n
}

func parseBase(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute url", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// resolve joins a relative resource path (which may carry a query) onto the
// base URL.
func resolve(base *url.URL, path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("resource path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// FetchWithAuth sends a JSON request with the stored bearer credential.
// A 401 clears the session, redirects to SignInRoute and returns
// ErrSessionExpired; any other status comes back as the decoded envelope.
func (c *Client) FetchWithAuth(ctx context.Context, path string, r Request) (*models.Envelope, error) {
	return c.do(ctx, path, r, true, true)
}

// FetchWithoutAuth sends a JSON request with no credential. A 401 is
// returned as an ordinary envelope.
func (c *Client) FetchWithoutAuth(ctx context.Context, path string, r Request) (*models.Envelope, error) {
	return c.do(ctx, path, r, false, true)
}

func (c *Client) do(ctx context.Context, path string, r Request, auth, jsonBody bool) (*models.Envelope, error) {
	target, err := resolve(c.baseURL, path)
	if err != nil {
		return nil, err
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, r.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if jsonBody {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}
	for k, vs := range r.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if auth {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode)

	if auth && resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx)
		return nil, ErrSessionExpired
	}

	env := &models.Envelope{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	env.Status = resp.StatusCode
	return env, nil
}

func (c *Client) expire(ctx context.Context) {
	if err := c.creds.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear expired session", "error", err)
	}
	if c.nav != nil {
		c.nav.Navigate(SignInRoute)
	}
}
