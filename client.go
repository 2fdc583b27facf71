package reversaar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// SessionCookie is the name of the credential cookie set by /api/login.
const SessionCookie = "Session"

// credentialPath is the cookie scope revoked on logout.
const credentialPath = "/api"

// Client talks to a reversal service. It implements API.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. If it has no cookie
// jar, one is installed.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithClientLogger sets the logger for request tracing.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the service at baseURL
// (e.g. "http://localhost:7331").
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	// The cookie jar matches on URL.Path, which must be rooted.
	if !strings.HasPrefix(base.Path, "/") {
		base.Path = "/" + base.Path
	}

	c := &Client{base: base}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	if c.logger == nil {
		c.logger = discardLogger()
	}
	return c, nil
}

// Info implements API.
func (c *Client) Info(ctx context.Context) (*Session, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/info", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		drain(resp)
		return nil, nil
	}
	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode info: %w", err)
	}
	return &s, nil
}

// Login implements API.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/login", bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		drain(resp)
		return nil, &AuthError{Status: statusText(resp)}
	}
	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode login: %w", err)
	}
	return &s, nil
}

// Submit implements API.
func (c *Client) Submit(ctx context.Context, content Content) (Receipt, error) {
	payload, err := Encode(content)
	if err != nil {
		return Receipt{}, err
	}
	k := content.Kind()

	resp, err := c.do(ctx, http.MethodPost, k.newPath(), bytes.NewReader(payload), submitHeaders(k))
	if err != nil {
		return Receipt{}, err
	}
	defer resp.Body.Close()

	if !ok(resp) {
		drain(resp)
		return Receipt{}, &SubmissionError{Kind: k, Status: statusText(resp)}
	}

	var raw struct {
		ID *int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.ID == nil || *raw.ID < 0 {
		return Receipt{}, fmt.Errorf("%w: missing or negative id", ErrMalformedResponse)
	}
	return Receipt{ID: *raw.ID}, nil
}

// Fetch implements API.
func (c *Client) Fetch(ctx context.Context, k Kind, index int) ([]byte, error) {
	if index < 0 {
		return nil, &FetchError{Kind: k, Index: index, Err: ErrIndexOutOfRange}
	}
	resp, err := c.do(ctx, http.MethodGet, k.itemPath(index), nil, nil)
	if err != nil {
		return nil, &FetchError{Kind: k, Index: index, Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp) {
		drain(resp)
		return nil, &FetchError{Kind: k, Index: index, Status: statusText(resp)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: k, Index: index, Err: err}
	}
	return data, nil
}

// ItemURL implements API.
func (c *Client) ItemURL(k Kind, index int) string {
	return c.base.JoinPath(k.itemPath(index)).String()
}

// Logout implements API by expiring the session cookie for /api.
func (c *Client) Logout() error {
	c.http.Jar.SetCookies(c.apiURL(), []*http.Cookie{{
		Name:    SessionCookie,
		Value:   "",
		Path:    credentialPath,
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	}})
	return nil
}

// Credential returns the current session cookie value, or "".
func (c *Client) Credential() string {
	for _, ck := range c.http.Jar.Cookies(c.apiURL()) {
		if ck.Name == SessionCookie {
			return ck.Value
		}
	}
	return ""
}

// SetCredential installs a previously saved session cookie value.
func (c *Client) SetCredential(token string) {
	if token == "" {
		return
	}
	c.http.Jar.SetCookies(c.apiURL(), []*http.Cookie{{
		Name:     SessionCookie,
		Value:    token,
		Path:     credentialPath,
		SameSite: http.SameSiteStrictMode,
	}})
}

func (c *Client) apiURL() *url.URL {
	return c.base.JoinPath(credentialPath + "/")
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "request_id", reqID, "method", method, "path", path, "error", err)
		return nil, err
	}
	c.logger.Debug("request",
		"request_id", reqID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp, nil
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
}

// statusText strips the numeric code from resp.Status ("401 Unauthorized"
// becomes "Unauthorized").
func statusText(resp *http.Response) string {
	s := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if s == "" {
		s = http.StatusText(resp.StatusCode)
	}
	return s
}
