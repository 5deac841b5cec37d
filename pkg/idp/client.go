package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client defines the identity provider operations the authentication flow
// depends on. The token exchange endpoint is not part of this contract; it
// belongs to the OAuth2 exchanger.
type Client interface {
	// Login submits credentials and returns the decoded tagged outcome.
	Login(ctx context.Context, creds Credentials) (LoginResult, error)

	// VerifyTwoFactor submits a TOTP code for the given user and returns the
	// issued access token on success.
	VerifyTwoFactor(ctx context.Context, userID, code string) (string, error)

	// Signup registers a new local account and returns the enrollment payload.
	Signup(ctx context.Context, email, password string) (Enrollment, error)

	// UserInfo fetches the profile for the current session. The underlying
	// HTTP client is expected to inject the Authorization header.
	UserInfo(ctx context.Context) (UserProfile, error)
}

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient during construction.
type Option func(*HTTPClient)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// WithHTTPClient sets the underlying HTTP client. Wire the session gate
// transport here so authenticated calls carry the bearer token and 401
// responses trip the expiry path.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// New creates an identity provider client for the given configuration.
func New(cfg Config, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = 15 * time.Second
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login submits credentials to POST /auth/login and decodes the tagged
// response union.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	status, body, err := c.postJSON(ctx, "/auth/login", creds)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", ErrTransientNetwork, err)
	}

	switch {
	case status == http.StatusOK:
		result, err := decodeLoginResult(body)
		if err != nil {
			c.logger.WarnContext(ctx, "unrecognized login response shape")
			return LoginResult{}, err
		}
		return result, nil
	case status == http.StatusUnauthorized:
		msg := errorMessage(body)
		if strings.Contains(strings.ToLower(msg), "not activated") {
			return LoginResult{}, fmt.Errorf("%w: %s", ErrAccountNotActivated, msg)
		}
		return LoginResult{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	case status >= 500:
		return LoginResult{}, fmt.Errorf("%w: provider returned %d", ErrTransientNetwork, status)
	default:
		return LoginResult{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, errorMessage(body))
	}
}

// VerifyTwoFactor submits a TOTP code to POST /auth/verify-2fa. The caller is
// responsible for local format validation; this method only reports the
// provider's verdict.
func (c *HTTPClient) VerifyTwoFactor(ctx context.Context, userID, code string) (string, error) {
	payload := map[string]string{"userId": userID, "code": code}
	status, body, err := c.postJSON(ctx, "/auth/verify-2fa", payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransientNetwork, err)
	}

	switch {
	case status == http.StatusOK:
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(body, &resp); err != nil || resp.Token == "" {
			return "", ErrProtocolViolation
		}
		return resp.Token, nil
	case status == http.StatusBadRequest, status == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: %s", ErrInvalidTOTPCode, errorMessage(body))
	default:
		return "", fmt.Errorf("%w: provider returned %d", ErrTransientNetwork, status)
	}
}

// Signup registers a new account via POST /auth/signup and returns the
// two-factor enrollment payload.
func (c *HTTPClient) Signup(ctx context.Context, email, password string) (Enrollment, error) {
	payload := map[string]string{"email": email, "password": password}
	status, body, err := c.postJSON(ctx, "/auth/signup", payload)
	if err != nil {
		return Enrollment{}, fmt.Errorf("%w: %w", ErrTransientNetwork, err)
	}

	switch {
	case status == http.StatusCreated, status == http.StatusOK:
		var enrollment Enrollment
		if err := json.Unmarshal(body, &enrollment); err != nil || enrollment.UserID == "" {
			return Enrollment{}, ErrProtocolViolation
		}
		return enrollment, nil
	case status >= 500:
		return Enrollment{}, fmt.Errorf("%w: provider returned %d", ErrTransientNetwork, status)
	default:
		return Enrollment{}, fmt.Errorf("idp: signup rejected: %s", errorMessage(body))
	}
}

// UserInfo fetches GET /auth/userinfo. A 401 maps to ErrUnauthorized, which
// callers must treat as the session expiry signal.
func (c *HTTPClient) UserInfo(ctx context.Context) (UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/userinfo", nil)
	if err != nil {
		return UserProfile{}, fmt.Errorf("idp: build userinfo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserProfile{}, fmt.Errorf("%w: %w", ErrTransientNetwork, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return UserProfile{}, fmt.Errorf("%w: %w", ErrTransientNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var profile UserProfile
		if err := json.Unmarshal(body, &profile); err != nil {
			return UserProfile{}, ErrProtocolViolation
		}
		return profile, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return UserProfile{}, fmt.Errorf("%w: %s", ErrUnauthorized, errorMessage(body))
	default:
		return UserProfile{}, fmt.Errorf("%w: provider returned %d", ErrTransientNetwork, resp.StatusCode)
	}
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("idp: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("idp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// errorMessage extracts the provider's error text: the {message} JSON shape
// when present, the raw body otherwise.
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
