package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashfolio/cashfolio/internal/platform/source"
)

// SourceRepository implements the funding-source repository using PostgreSQL
type SourceRepository struct {
	pool *pgxpool.Pool
}

// NewSourceRepository creates a new PostgreSQL funding-source repository
func NewSourceRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{pool: pool}
}

// Create inserts a new funding source. A unique violation surfaces as
// a plain error; callers resolve the race by re-reading the name.
func (r *SourceRepository) Create(ctx context.Context, src *source.FundingSource) error {
	query := `
		INSERT INTO funding_sources (id, portfolio_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		src.ID,
		src.PortfolioID,
		src.Name,
		src.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create funding source: %w", err)
	}

	return nil
}

// GetByName retrieves a funding source by portfolio and name
func (r *SourceRepository) GetByName(ctx context.Context, portfolioID uuid.UUID, name string) (*source.FundingSource, error) {
	query := `
		SELECT id, portfolio_id, name, created_at
		FROM funding_sources
		WHERE portfolio_id = $1 AND name = $2
	`

	src := &source.FundingSource{}
	err := r.pool.QueryRow(ctx, query, portfolioID, name).Scan(
		&src.ID,
		&src.PortfolioID,
		&src.Name,
		&src.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, source.ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to get funding source: %w", err)
	}

	return src, nil
}

// ListByPortfolio retrieves all funding sources for a portfolio
func (r *SourceRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*source.FundingSource, error) {
	query := `
		SELECT id, portfolio_id, name, created_at
		FROM funding_sources
		WHERE portfolio_id = $1
		ORDER BY name ASC
	`

	rows, err := r.pool.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query funding sources: %w", err)
	}
	defer rows.Close()

	var sources []*source.FundingSource
	for rows.Next() {
		src := &source.FundingSource{}
		err := rows.Scan(
			&src.ID,
			&src.PortfolioID,
			&src.Name,
			&src.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funding source: %w", err)
		}
		sources = append(sources, src)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funding sources: %w", err)
	}

	return sources, nil
}
