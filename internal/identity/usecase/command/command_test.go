package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/lumina-storefront/internal/identity/domain"
	"github.com/tair/lumina-storefront/internal/identity/repository"
	"github.com/tair/lumina-storefront/pkg/auth"
)

func setup(t *testing.T) (*repository.MemoryUserRepository, *auth.TokenManager) {
	t.Helper()
	repo, err := repository.NewSeededMemoryUserRepository()
	require.NoError(t, err)
	return repo, auth.NewTokenManager("test-secret", time.Hour)
}

func TestLoginSeededAccounts(t *testing.T) {
	repo, tokens := setup(t)
	h := NewLoginUserHandler(repo, tokens)

	tests := []struct {
		email string
		role  string
	}{
		{"user@lumina.com", domain.RoleCustomer},
		{"ADMIN@lumina.com", domain.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			res, err := h.Handle(context.Background(), LoginUserCommand{Email: tt.email, Password: domain.DemoPassword})
			require.NoError(t, err)
			assert.Equal(t, tt.role, res.User.Role)

			claims, err := tokens.ValidateToken(res.Token)
			require.NoError(t, err)
			assert.Equal(t, res.User.ID, claims.UserID)
			assert.Equal(t, tt.role, claims.Role)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo, tokens := setup(t)
	h := NewLoginUserHandler(repo, tokens)

	for _, cmd := range []LoginUserCommand{
		{Email: "user@lumina.com", Password: "wrong"},
		{Email: "nobody@lumina.com", Password: domain.DemoPassword},
		{Email: "", Password: domain.DemoPassword},
		{Email: "user@lumina.com", Password: ""},
	} {
		_, err := h.Handle(context.Background(), cmd)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	repo, tokens := setup(t)
	h := NewRegisterUserHandler(repo, tokens)

	res, err := h.Handle(context.Background(), RegisterUserCommand{
		Name:     " Jordan Lee ",
		Email:    "Jordan@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jordan Lee", res.User.Name)
	assert.Equal(t, "jordan@example.com", res.User.Email)
	assert.Equal(t, domain.RoleCustomer, res.User.Role)
	assert.Contains(t, res.User.Avatar, "seed=Jordan+Lee")
	assert.NotEqual(t, "secret1", res.User.Password)
	assert.NotEmpty(t, res.Token)

	login := NewLoginUserHandler(repo, tokens)
	_, err = login.Handle(context.Background(), LoginUserCommand{Email: "jordan@example.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	repo, tokens := setup(t)
	h := NewRegisterUserHandler(repo, tokens)

	tests := []struct {
		name string
		cmd  RegisterUserCommand
		want error
	}{
		{"missing name", RegisterUserCommand{Email: "a@b.co", Password: "secret1"}, ErrValidation},
		{"bad email", RegisterUserCommand{Name: "A", Email: "nope", Password: "secret1"}, ErrValidation},
		{"short password", RegisterUserCommand{Name: "A", Email: "a@b.co", Password: "abc"}, ErrValidation},
		{"email taken", RegisterUserCommand{Name: "A", Email: "user@lumina.com", Password: "secret1"}, domain.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

type failingLookupRepo struct {
	*repository.MemoryUserRepository
	created bool
}

var errStoreDown = errors.New("store down")

func (r *failingLookupRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errStoreDown
}

func (r *failingLookupRepo) Create(ctx context.Context, user *domain.User) error {
	r.created = true
	return r.MemoryUserRepository.Create(ctx, user)
}

func TestRegisterSurfacesLookupFailure(t *testing.T) {
	mem, tokens := setup(t)
	repo := &failingLookupRepo{MemoryUserRepository: mem}
	h := NewRegisterUserHandler(repo, tokens)

	_, err := h.Handle(context.Background(), RegisterUserCommand{
		Name:     "New Customer",
		Email:    "new@lumina.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, domain.ErrEmailTaken)
	assert.False(t, repo.created)
}
