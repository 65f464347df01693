// Package session holds the signed-in user of a browser session: the auth
// service boundary, the durable session record and route authorization.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/lumina-storefront/pkg/auth"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// Role values carried by User.Role.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrPasswordMismatch = errors.New("Passwords do not match.")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters.")
	ErrEmailRequired    = errors.New("Email is required.")
)

// ForgotPasswordNotice is the acknowledgement shown after a reset request.
const ForgotPasswordNotice = "If an account exists for that email, reset instructions are on their way."

// User is the signed-in account as the storefront sees it.
type User struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

// IsAdmin reports whether the user may open the admin dashboard.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Manager signs a browser session in and out. The user record and token are
// kept in the session's Store so they survive a restart of the state.
type Manager struct {
	client AuthClient
	store  Store
}

func NewManager(client AuthClient, store Store) *Manager {
	return &Manager{client: client, store: store}
}

// Login authenticates and persists the session.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	grant, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, grant); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("user_id", grant.User.ID).Str("role", grant.User.Role).Msg("User signed in")
	return &grant.User, nil
}

// Register validates the form locally, then creates the account and
// persists the session. Nothing is sent when validation fails.
func (m *Manager) Register(ctx context.Context, name, email, password, confirm string) (*User, error) {
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if len(password) < auth.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	grant, err := m.client.Register(ctx, strings.TrimSpace(name), email, password)
	if err != nil {
		return nil, err
	}
	if err := m.save(ctx, grant); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("user_id", grant.User.ID).Msg("User registered")
	return &grant.User, nil
}

// Logout removes the user record and the token.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, KeySession, KeyToken); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current restores the signed-in user. A missing or unreadable record means
// nobody is signed in.
func (m *Manager) Current(ctx context.Context) *User {
	raw, err := m.store.Get(ctx, KeySession)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			logger.Warn(ctx).Err(err).Msg("Failed to read session record")
		}
		return nil
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		logger.Warn(ctx).Err(err).Msg("Discarding unreadable session record")
		return nil
	}
	return &u
}

// Token returns the stored bearer token, or "" when signed out.
func (m *Manager) Token(ctx context.Context) string {
	raw, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return ""
	}
	return string(raw)
}

// ForgotPassword acknowledges a reset request. No email is sent.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	logger.Info(ctx).Str("email", email).Msg("Password reset requested")
	return ForgotPasswordNotice, nil
}

func (m *Manager) save(ctx context.Context, grant *Grant) error {
	raw, err := json.Marshal(grant.User)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Set(ctx, KeySession, raw); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := m.store.Set(ctx, KeyToken, []byte(grant.Token)); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LandingRoute is where a user goes right after signing in.
func LandingRoute(u *User) string {
	if u.IsAdmin() {
		return RouteAdmin
	}
	return RouteProfile
}
