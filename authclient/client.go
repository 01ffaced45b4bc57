// Package authclient is the typed contract with the remote authentication API.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	headerRequestID = "X-Request-ID"
	maxResponseSize = 1 << 20
)

// Client talks to the login and forgot-password endpoints. It is safe for concurrent use.
type Client struct {
	baseURL     string
	timeout     time.Duration
	tokenSource oauth2.TokenSource
	transport   http.RoundTripper
	metrics     *metrics.Recorder
	httpClient  *http.Client
}

type Option func(*Client)

// WithTimeout overrides the default 10 second bound on each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTokenSource enables bearer attachment from src on every request.
func WithTokenSource(src oauth2.TokenSource) Option {
	return func(c *Client) { c.tokenSource = src }
}

// WithTransport replaces the underlying round tripper (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: config.DefaultAPITimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Timeout: c.timeout,
		Transport: &BearerTransport{
			Source: c.tokenSource,
			Base:   c.transport,
		},
	}
	return c
}

// Login posts credentials. A non-success code comes back as *ApplicationError,
// a transport failure or timeout as *NetworkError.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	env, err := post[LoginData](ctx, c, "login", PathLogin, creds)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:        env.Data.Token,
		RefreshToken: env.Data.RefreshToken,
		User:         env.Data.User,
		ExpiresIn:    env.Data.ExpiresIn,
		Message:      env.Message,
	}, nil
}

// RequestPasswordReset asks the backend to send a reset email to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (ResetResult, error) {
	env, err := post[ForgotPasswordData](ctx, c, "forgot_password", PathForgotPassword, ForgotPasswordRequest{Email: email})
	if err != nil {
		return ResetResult{}, err
	}
	return ResetResult{Email: env.Data.Email, Message: env.Message}, nil
}

func post[T any](ctx context.Context, c *Client, endpoint, path string, body any) (Envelope[T], error) {
	var env Envelope[T]

	payload, err := json.Marshal(body)
	if err != nil {
		return env, fmt.Errorf("[authclient %s] failed to encode request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return env, &NetworkError{Op: endpoint, Err: err}
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)

	logger := log.With().Str("endpoint", endpoint).Str("request_id", requestID).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.APIRequest(endpoint, "network_error", time.Since(start))
		logger.Err(err).Msg("Auth API request failed")
		return env, &NetworkError{Op: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		c.metrics.APIRequest(endpoint, "network_error", time.Since(start))
		logger.Err(err).Msg("Failed to read auth API response")
		return env, &NetworkError{Op: endpoint, Err: err}
	}
	if len(data) > maxResponseSize {
		c.metrics.APIRequest(endpoint, "malformed", time.Since(start))
		logger.Warn().Int("status", resp.StatusCode).Int("limit", maxResponseSize).Msg("Auth API response too large")
		return env, &ApplicationError{}
	}
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.APIRequest(endpoint, "http_error", time.Since(start))
		if decodeErr == nil && env.Message != "" {
			code := env.Code
			if code == 0 {
				code = resp.StatusCode
			}
			logger.Warn().Int("status", resp.StatusCode).Int("code", code).Str("message", env.Message).Msg("Auth API rejected request")
			return env, &ApplicationError{Code: code, Message: env.Message}
		}
		logger.Warn().Int("status", resp.StatusCode).Msg("Auth API returned an unreadable error response")
		return env, &NetworkError{Op: endpoint, Err: &StatusError{StatusCode: resp.StatusCode}}
	}

	if decodeErr != nil {
		c.metrics.APIRequest(endpoint, "malformed", time.Since(start))
		logger.Err(decodeErr).Msg("Auth API returned a malformed envelope")
		return env, &ApplicationError{}
	}

	if env.Code != CodeSuccess {
		c.metrics.APIRequest(endpoint, "app_error", time.Since(start))
		logger.Warn().Int("code", env.Code).Str("message", env.Message).Msg("Auth API reported failure")
		return env, &ApplicationError{Code: env.Code, Message: env.Message}
	}
	if env.Data == nil {
		// success code without a payload; the message would read as a success, so drop it
		c.metrics.APIRequest(endpoint, "malformed", time.Since(start))
		logger.Warn().Msg("Auth API success response is missing data")
		return env, &ApplicationError{Code: env.Code}
	}
	if v, ok := any(env.Data).(interface{ complete() bool }); ok && !v.complete() {
		c.metrics.APIRequest(endpoint, "malformed", time.Since(start))
		logger.Warn().Msg("Auth API success response is missing required fields")
		return env, &ApplicationError{Code: env.Code}
	}

	c.metrics.APIRequest(endpoint, "ok", time.Since(start))
	logger.Debug().Dur("elapsed", time.Since(start)).Msg("Auth API request succeeded")
	return env, nil
}
