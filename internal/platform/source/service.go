package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service provides business logic for funding-source operations
type Service struct {
	repo Repository
}

// NewService creates a new funding-source service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate resolves a funding source by name, creating it on first
// use. Record creation calls this so the known-source set stays in
// step with the names actually appearing on records.
func (s *Service) GetOrCreate(ctx context.Context, portfolioID uuid.UUID, name string) (*FundingSource, error) {
	name = Normalize(name)

	src := &FundingSource{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Name:        name,
		CreatedAt:   time.Now(),
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, portfolioID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrSourceNotFound) {
		return nil, fmt.Errorf("failed to look up funding source: %w", err)
	}

	if err := s.repo.Create(ctx, src); err != nil {
		// Concurrent first use can race; the stored row wins
		if existing, lookupErr := s.repo.GetByName(ctx, portfolioID, name); lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create funding source: %w", err)
	}

	return src, nil
}

// List retrieves all funding sources for a portfolio
func (s *Service) List(ctx context.Context, portfolioID uuid.UUID) ([]*FundingSource, error) {
	if portfolioID == uuid.Nil {
		return nil, ErrInvalidPortfolioID
	}

	sources, err := s.repo.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funding sources: %w", err)
	}

	return sources, nil
}
