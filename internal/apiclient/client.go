// Package apiclient talks to the records API that owns job roles and posts.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"
	"golang.org/x/oauth2"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
	userAgent        = "records-ui"
)

// ErrUnexpectedResponse is returned when a 2xx response does not have the expected shape.
var ErrUnexpectedResponse = errors.New("unexpected records api response")

// Config configures a Client. Token takes precedence over the password grant.
type Config struct {
	BaseURL string

	// Token is a static bearer token.
	Token string

	// TokenURL, ClientID, Username and Password configure the OAuth2 password grant.
	TokenURL string
	ClientID string
	Username string
	Password string

	Timeout time.Duration

	// StrictResponses validates 2xx response bodies against JSON schemas.
	StrictResponses bool

	// HTTPClient is the base client used for API and token requests (optional).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a minimal JSON client for the records API.
type Client struct {
	baseURL *url.URL
	hc      *http.Client
	strict  bool
	logger  *slog.Logger
}

// NewClient builds a records API client. Callers should pass a sanitized config.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("records api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse records api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("records api base url must be absolute: %q", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		hc:      newHTTPClient(cfg, timeout),
		strict:  cfg.StrictResponses,
		logger:  logger.With("component", "records_api"),
	}, nil
}

func newHTTPClient(cfg Config, timeout time.Duration) *http.Client {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: timeout}
	}

	ts := tokenSource(cfg, base)
	if ts == nil {
		return base
	}

	// oauth2.NewClient picks the base transport up from the context.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = timeout
	return hc
}

func tokenSource(cfg Config, base *http.Client) oauth2.TokenSource {
	if tok := strings.TrimSpace(cfg.Token); tok != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
	}
	if cfg.TokenURL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	return &passwordSource{
		conf: &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		username: cfg.Username,
		password: cfg.Password,
		base:     base,
	}
}

// passwordSource fetches a token with the resource owner password grant.
// oauth2.NewClient wraps it in a ReuseTokenSource so it only runs on expiry.
type passwordSource struct {
	conf     *oauth2.Config
	username string
	password string
	base     *http.Client
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.base)
	tok, err := s.conf.PasswordCredentialsToken(ctx, s.username, s.password)
	if err != nil {
		return nil, fmt.Errorf("records api token: %w", err)
	}
	return tok, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	schema *jsonschema.Schema
}

// do executes req and decodes a 2xx JSON response into out.
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	body, err := readBody(resp)
	c.logger.DebugContext(ctx, "records api call",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	if err := c.checkShape(ctx, req, body); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrUnexpectedResponse, req.method, req.path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.path)
	// JoinPath drops the trailing slash the collection routes rely on.
	if strings.HasSuffix(req.path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var payload io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", req.path, err)
		}
		payload = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("create records api request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func (c *Client) checkShape(ctx context.Context, req request, body []byte) error {
	if !c.strict || req.schema == nil {
		return nil
	}
	verrs, err := req.schema.ValidateBytes(ctx, body)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUnexpectedResponse, req.method, req.path, err)
	}
	if len(verrs) == 0 {
		return nil
	}
	problems := make([]string, 0, len(verrs))
	for _, v := range verrs {
		problems = append(problems, strings.TrimSpace(v.PropertyPath+" "+v.Message))
	}
	return fmt.Errorf("%w: %s %s: %s", ErrUnexpectedResponse, req.method, req.path, strings.Join(problems, "; "))
}

func readBody(resp *http.Response) ([]byte, error) {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	closeErr := resp.Body.Close()
	if readErr != nil {
		if closeErr != nil {
			return nil, errors.Join(
				fmt.Errorf("read response body: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return nil, fmt.Errorf("read response body: %w", readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close response body: %w", closeErr)
	}
	return body, nil
}
