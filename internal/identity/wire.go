//go:build wireinject
// +build wireinject

package identity

import (
	"github.com/google/wire"

	"github.com/tair/lumina-storefront/internal/identity/delivery/http"
	"github.com/tair/lumina-storefront/internal/identity/domain"
	"github.com/tair/lumina-storefront/internal/identity/usecase/command"
	"github.com/tair/lumina-storefront/internal/identity/usecase/query"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/auth"
)

// Command Handlers Providers
func ProvideRegisterUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *command.RegisterUserHandler {
	return command.NewRegisterUserHandler(repo, tokens)
}

func ProvideLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *command.LoginUserHandler {
	return command.NewLoginUserHandler(repo, tokens)
}

// Query Handlers Providers
func ProvideGetUserHandler(repo domain.UserRepository) *query.GetUserHandler {
	return query.NewGetUserHandler(repo)
}

func ProvideGetStatsHandler(repo domain.UserRepository) *query.GetStatsHandler {
	return query.NewGetStatsHandler(repo)
}

// Wire sets
var CommandHandlerSet = wire.NewSet(
	ProvideRegisterUserHandler,
	ProvideLoginUserHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetUserHandler,
	ProvideGetStatsHandler,
)

var AllHandlersSet = wire.NewSet(
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies. The
// repository comes from OpenRepository, which picks the store.
func InitializeHTTPHandler(repo domain.UserRepository, tokens *auth.TokenManager, metrics *web.Metrics) (*http.AuthHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewAuthHandlerWithDI,
	)
	return nil, nil
}
