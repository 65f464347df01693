package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracingCatalogRepository wraps any CatalogRepository with spans
type TracingCatalogRepository struct {
	next  domain.CatalogRepository
	store string
}

// NewTracingCatalogRepository creates a new repository with tracing
func NewTracingCatalogRepository(next domain.CatalogRepository, store string) *TracingCatalogRepository {
	return &TracingCatalogRepository{next: next, store: store}
}

func (r *TracingCatalogRepository) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("catalog.store", r.store))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// FindAll with tracing
func (r *TracingCatalogRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.start(ctx, "repository.FindAll")
	defer span.End()

	products, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// FindByID with tracing
func (r *TracingCatalogRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := r.start(ctx, "repository.FindByID", attribute.Int("product.id", int(id)))
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		span.SetAttributes(attribute.Bool("product.found", false))
		return nil, err
	}
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("product.found", true),
		attribute.String("product.name", product.Name),
		attribute.String("product.category", product.Category),
		attribute.Int("product.stock", product.Stock),
	)
	return product, nil
}

// FindReviews with tracing
func (r *TracingCatalogRepository) FindReviews(ctx context.Context, productID uint) ([]domain.Review, error) {
	ctx, span := r.start(ctx, "repository.FindReviews", attribute.Int("product.id", int(productID)))
	defer span.End()

	reviews, err := r.next.FindReviews(ctx, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(reviews)))
	return reviews, nil
}

// Count with tracing
func (r *TracingCatalogRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
