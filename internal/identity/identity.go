// Package identity is the auth service: customer and admin accounts,
// registration, login and bearer tokens.
package identity

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/config"
	"github.com/tair/lumina-storefront/internal/identity/domain"
	"github.com/tair/lumina-storefront/internal/identity/repository"
	"github.com/tair/lumina-storefront/pkg/database"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// OpenRepository builds the traced user repository selected by
// cfg.UserStore, migrated and seeded with the demo accounts. The returned
// func releases the database connection.
func OpenRepository(ctx context.Context, cfg *config.Auth) (domain.UserRepository, func(), error) {
	if cfg.UserStore == "memory" {
		repo, err := repository.NewSeededMemoryUserRepository()
		if err != nil {
			return nil, nil, err
		}
		logger.Logger.Info().Msg("Using in-memory user store")
		return repository.NewTracingUserRepository(repo), func() {}, nil
	}

	db, err := database.NewGormConnection(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	closeDB := func() { _ = sqlDB.Close() }

	repo := repository.NewGormUserRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := repo.Seed(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	return repository.NewTracingUserRepository(repo), closeDB, nil
}
