package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for portfolio data access
type Repository interface {
	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *Portfolio) error

	// GetByID retrieves a portfolio by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)

	// GetByUserID retrieves all portfolios for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Portfolio, error)

	// Update updates an existing portfolio
	Update(ctx context.Context, portfolio *Portfolio) error

	// Delete deletes a portfolio by ID. Cash-flow records belonging to
	// the portfolio are removed with it.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByUserAndName checks if a portfolio with the given name exists for the user
	ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
}
