package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/lumina-storefront/internal/identity/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository wraps any UserRepository with spans
type TracingUserRepository struct {
	next domain.UserRepository
}

// NewTracingUserRepository creates a new repository with tracing
func NewTracingUserRepository(next domain.UserRepository) *TracingUserRepository {
	return &TracingUserRepository{next: next}
}

// Create with tracing
func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(attribute.String("user.role", user.Role)),
	)
	defer span.End()

	if err := r.next.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			span.SetAttributes(attribute.Bool("user.email_taken", true))
			return err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return nil
}

// FindByID with tracing
func (r *TracingUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer span.End()

	user, err := r.next.FindByID(ctx, id)
	r.finish(span, err)
	return user, err
}

// FindByEmail with tracing
func (r *TracingUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByEmail")
	defer span.End()

	user, err := r.next.FindByEmail(ctx, email)
	r.finish(span, err)
	return user, err
}

// Count with tracing
func (r *TracingUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	n, err := r.next.Count(ctx)
	r.finish(span, err)
	span.SetAttributes(attribute.Int64("result.count", n))
	return n, err
}

// CountByRole with tracing
func (r *TracingUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.CountByRole",
		trace.WithAttributes(attribute.String("user.role", role)),
	)
	defer span.End()

	n, err := r.next.CountByRole(ctx, role)
	r.finish(span, err)
	span.SetAttributes(attribute.Int64("result.count", n))
	return n, err
}

// finish marks the span failed unless err is nil or a plain miss.
func (r *TracingUserRepository) finish(span trace.Span, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		span.SetAttributes(attribute.Bool("user.found", false))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
