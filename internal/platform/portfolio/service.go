package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service provides business logic for portfolio operations
type Service struct {
	repo Repository
}

// NewService creates a new portfolio service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new portfolio for a user
func (s *Service) Create(ctx context.Context, portfolio *Portfolio) (*Portfolio, error) {
	// Validate portfolio data
	if err := portfolio.ValidateCreate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if portfolio with same name already exists for user
	exists, err := s.repo.ExistsByUserAndName(ctx, portfolio.UserID, portfolio.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check portfolio existence: %w", err)
	}

	if exists {
		return nil, ErrDuplicatePortfolioName
	}

	portfolio.ID = uuid.New()
	portfolio.CreatedAt = time.Now()
	portfolio.UpdatedAt = portfolio.CreatedAt

	if err := s.repo.Create(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	return portfolio, nil
}

// GetByID retrieves a portfolio by ID and validates user ownership
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Portfolio, error) {
	portfolio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Verify portfolio belongs to requesting user
	if portfolio.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	return portfolio, nil
}

// List retrieves all portfolios for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Portfolio, error) {
	portfolios, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	return portfolios, nil
}

// Update updates an existing portfolio
func (s *Service) Update(ctx context.Context, portfolio *Portfolio, userID uuid.UUID) (*Portfolio, error) {
	// Validate update data
	if err := portfolio.ValidateUpdate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Get existing portfolio to verify ownership
	existing, err := s.repo.GetByID(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrUnauthorizedAccess
	}

	// Check if new name conflicts with an existing portfolio
	if portfolio.Name != existing.Name {
		exists, err := s.repo.ExistsByUserAndName(ctx, userID, portfolio.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check portfolio name: %w", err)
		}

		if exists {
			return nil, ErrDuplicatePortfolioName
		}
	}

	// Preserve immutable fields from the stored row
	portfolio.UserID = existing.UserID
	portfolio.CreatedAt = existing.CreatedAt
	if portfolio.BaseCurrency == "" {
		portfolio.BaseCurrency = existing.BaseCurrency
	}
	portfolio.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to update portfolio: %w", err)
	}

	return portfolio, nil
}

// Delete deletes a portfolio together with its cash-flow records
func (s *Service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	// Get existing portfolio to verify ownership
	portfolio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if portfolio.UserID != userID {
		return ErrUnauthorizedAccess
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	return nil
}
