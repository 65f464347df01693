package query

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/identity/domain"
)

// GetStatsQuery represents the query to get account statistics (admin only)
type GetStatsQuery struct{}

// UserStats represents account statistics
type UserStats struct {
	TotalUsers    int64 `json:"total_users"`
	AdminCount    int64 `json:"admin_count"`
	CustomerCount int64 `json:"customer_count"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*UserStats, error) {
	totalUsers, err := h.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	adminCount, err := h.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}

	customerCount, err := h.repo.CountByRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return &UserStats{
		TotalUsers:    totalUsers,
		AdminCount:    adminCount,
		CustomerCount: customerCount,
	}, nil
}
