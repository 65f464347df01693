package session

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/lumina-storefront/pkg/auth"
	"github.com/tair/lumina-storefront/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	ErrRegistrationFailed = errors.New("Registration failed. Please try again.")
)

// RegistrationError carries the reason the auth service gave for refusing a
// registration. It matches ErrRegistrationFailed with errors.Is.
type RegistrationError struct {
	Reason string
}

func (e *RegistrationError) Error() string {
	if e.Reason == "" {
		return ErrRegistrationFailed.Error()
	}
	return e.Reason
}

func (e *RegistrationError) Is(target error) bool {
	return target == ErrRegistrationFailed
}

// Grant is what the auth service returns for a successful login or
// registration.
type Grant struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// AuthClient talks to the external auth service.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*Grant, error)
	Register(ctx context.Context, name, email, password string) (*Grant, error)
}

// HTTPAuthClient is the JSON over HTTP AuthClient.
type HTTPAuthClient struct {
	baseURL string
	client  *http.Client
	tokens  *auth.TokenManager
}

// NewHTTPAuthClient creates a traced client for the auth service at baseURL.
func NewHTTPAuthClient(baseURL string) *HTTPAuthClient {
	return &HTTPAuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse accepts the service envelope as well as a bare grant.
type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    *Grant `json:"data"`
	Grant
}

func (r authResponse) grant() (*Grant, bool) {
	if r.Data != nil && r.Data.Token != "" {
		return r.Data, true
	}
	if r.Token != "" {
		g := r.Grant
		return &g, true
	}
	return nil, false
}

// WithTokenVerifier makes the client reject grants whose token does not
// validate against tokens or names a different user.
func (c *HTTPAuthClient) WithTokenVerifier(tokens *auth.TokenManager) *HTTPAuthClient {
	c.tokens = tokens
	return c
}

func (c *HTTPAuthClient) verify(ctx context.Context, g *Grant) bool {
	if c.tokens == nil {
		return true
	}
	claims, err := c.tokens.ValidateToken(g.Token)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Auth service returned an invalid token")
		return false
	}
	return claims.UserID == g.User.ID && strings.EqualFold(claims.Email, g.User.Email)
}

// Login exchanges credentials for a grant. Any refusal or transport failure
// is reported as ErrInvalidCredentials.
func (c *HTTPAuthClient) Login(ctx context.Context, email, password string) (*Grant, error) {
	resp, status, err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Auth service login call failed")
		return nil, ErrInvalidCredentials
	}
	if status < 200 || status > 299 {
		return nil, ErrInvalidCredentials
	}
	g, ok := resp.grant()
	if !ok || !c.verify(ctx, g) {
		return nil, ErrInvalidCredentials
	}
	return g, nil
}

// Register creates an account. A refusal keeps the service's reason when it
// sent one.
func (c *HTTPAuthClient) Register(ctx context.Context, name, email, password string) (*Grant, error) {
	resp, status, err := c.post(ctx, "/auth/register", registerRequest{Name: name, Email: email, Password: password})
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Auth service register call failed")
		return nil, &RegistrationError{}
	}
	if status < 200 || status > 299 {
		reason := resp.Message
		if reason == "" {
			reason = resp.Error
		}
		return nil, &RegistrationError{Reason: reason}
	}
	g, ok := resp.grant()
	if !ok || !c.verify(ctx, g) {
		return nil, &RegistrationError{}
	}
	return g, nil
}

// post returns a transport error only when no response could be read.
// Undecodable error bodies yield an empty authResponse.
func (c *HTTPAuthClient) post(ctx context.Context, path string, body interface{}) (authResponse, int, error) {
	var out authResponse

	payload, err := json.Marshal(body)
	if err != nil {
		return out, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return out, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return out, 0, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil && resp.StatusCode < 300 {
		return authResponse{}, 0, fmt.Errorf("decode response: %w", err)
	}
	return out, resp.StatusCode, nil
}
