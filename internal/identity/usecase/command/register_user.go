package command

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/tair/lumina-storefront/internal/identity/domain"
	"github.com/tair/lumina-storefront/pkg/auth"
)

// ErrValidation marks registration input the caller has to fix.
var ErrValidation = errors.New("validation failed")

// RegisterUserCommand represents the command to register a new customer
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the register user command. New accounts are always
// customers and are signed in right away.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*AuthResult, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	// Validation
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(cmd.Password) < auth.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, auth.MinPasswordLength)
	}

	existing, err := h.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Avatar:   domain.AvatarURL(name),
		Role:     domain.RoleCustomer,
		IsActive: true,
	}

	if err := h.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
