package source

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for funding-source data access
type Repository interface {
	// Create creates a new funding source
	Create(ctx context.Context, src *FundingSource) error

	// GetByName retrieves a funding source by portfolio and name.
	// Returns ErrSourceNotFound when no such source exists.
	GetByName(ctx context.Context, portfolioID uuid.UUID, name string) (*FundingSource, error)

	// ListByPortfolio retrieves all funding sources for a portfolio,
	// ordered by name
	ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*FundingSource, error)
}
