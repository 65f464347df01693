// Package catalog serves the read-only product catalog: products, reviews,
// related items and the filter/sort/paginate query engine.
package catalog

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/catalog/repository"
	"github.com/tair/lumina-storefront/internal/config"
	"github.com/tair/lumina-storefront/pkg/database"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// OpenRepository builds the traced catalog repository selected by
// cfg.CatalogStore. A postgres store is migrated and seeded with the sample
// catalog. The returned func releases the database connection, and probe
// (nil for the memory store) pings it.
func OpenRepository(ctx context.Context, cfg *config.Storefront) (repo domain.CatalogRepository, probe func(context.Context) error, closeFn func(), err error) {
	if cfg.CatalogStore != "postgres" {
		logger.Logger.Info().
			Dur("latency", cfg.CatalogLatency).
			Msg("Using in-memory catalog")
		mem := repository.NewMemoryCatalogRepository(repository.WithLatency(cfg.CatalogLatency))
		return repository.NewTracingCatalogRepository(mem, "memory"), nil, func() {}, nil
	}

	db, err := database.NewGormConnection(cfg.DB)
	if err != nil {
		return nil, nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	closeDB := func() { _ = sqlDB.Close() }

	gormRepo := repository.NewGormCatalogRepository(db)
	if err := gormRepo.AutoMigrate(); err != nil {
		closeDB()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := gormRepo.Seed(ctx); err != nil {
		closeDB()
		return nil, nil, nil, err
	}

	logger.Logger.Info().Str("database", cfg.DB.DBName).Msg("Catalog database initialized")
	return repository.NewTracingCatalogRepository(gormRepo, "postgres"), sqlDB.PingContext, closeDB, nil
}
