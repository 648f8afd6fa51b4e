// Package client talks to the remote authentication API.
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

	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/authforms"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// maxReadBytes caps how much of a response body is read.
const maxReadBytes = 1 * 1024 * 1024

// Account is the account summary returned by the API.
type Account struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DateOfBirth string  `json:"dateOfBirth"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
}

// Payload is a decoded API response body.
type Payload struct {
	Status      int                 `json:"status,omitempty"`
	Message     string              `json:"message,omitempty"`
	AccessToken string              `json:"accessToken,omitempty"`
	Data        *Account            `json:"data,omitempty"`
	Errors      map[string][]string `json:"errors,omitempty"`
}

// RequestValidator checks a body against the API description before it is
// sent.
type RequestValidator interface {
	ValidateRequest(ctx context.Context, method, path string, body any) error
}

// Client issues form submissions to the API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	contract   RequestValidator
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the API origin, e.g. "https://accounts.example.com".
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(raw), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContract validates request bodies before sending them.
func WithContract(v RequestValidator) Option {
	return func(c *Client) {
		c.contract = v
	}
}

// New builds a Client with defaults (DefaultBaseURL, 10s timeout, no-op logger).
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL reports the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit POSTs body as JSON to endpoint. A 2xx response yields the decoded
// payload; any other status with a JSON body yields *ServerError; everything
// else yields *TransportError.
func (c *Client) Submit(ctx context.Context, endpoint string, body any) (*Payload, error) {
	if c.contract != nil {
		if err := c.contract.ValidateRequest(ctx, http.MethodPost, endpoint, body); err != nil {
			return nil, &TransportError{Op: "contract", Err: err}
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("auth request failed", zap.String("url", url), zap.Error(err))
		return nil, &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("auth response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReadBytes))
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	var payload Payload
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &TransportError{Op: "decode", Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{
			Status:  resp.StatusCode,
			Message: SanitizeMessage(payload.Message),
			Errors:  payload.Errors,
		}
	}
	return &payload, nil
}

// SignIn submits credentials to the sign-in endpoint.
func (c *Client) SignIn(ctx context.Context, req authforms.SignInRequest) (*Payload, error) {
	return c.Submit(ctx, authforms.EndpointSignIn, req)
}

// SignUp submits a registration to the sign-up endpoint.
func (c *Client) SignUp(ctx context.Context, req authforms.SignUpRequest) (*Payload, error) {
	return c.Submit(ctx, authforms.EndpointSignUp, req)
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
