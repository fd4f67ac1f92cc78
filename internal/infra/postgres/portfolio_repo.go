package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashfolio/cashfolio/internal/platform/portfolio"
)

// PortfolioRepository implements the portfolio repository using PostgreSQL
type PortfolioRepository struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepository creates a new PostgreSQL portfolio repository
func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{pool: pool}
}

// Create creates a new portfolio
func (r *PortfolioRepository) Create(ctx context.Context, p *portfolio.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, user_id, name, base_currency, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.BaseCurrency,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return portfolio.ErrDuplicatePortfolioName
		}
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	return nil
}

// GetByID retrieves a portfolio by ID
func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*portfolio.Portfolio, error) {
	query := `
		SELECT id, user_id, name, base_currency, description, created_at, updated_at
		FROM portfolios
		WHERE id = $1
	`

	p := &portfolio.Portfolio{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.BaseCurrency,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	return p, nil
}

// GetByUserID retrieves all portfolios for a user
func (r *PortfolioRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*portfolio.Portfolio, error) {
	query := `
		SELECT id, user_id, name, base_currency, description, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []*portfolio.Portfolio
	for rows.Next() {
		p := &portfolio.Portfolio{}
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Name,
			&p.BaseCurrency,
			&p.Description,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	return portfolios, nil
}

// Update updates an existing portfolio
func (r *PortfolioRepository) Update(ctx context.Context, p *portfolio.Portfolio) error {
	query := `
		UPDATE portfolios
		SET name = $1, base_currency = $2, description = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.pool.Exec(ctx, query,
		p.Name,
		p.BaseCurrency,
		p.Description,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return portfolio.ErrDuplicatePortfolioName
		}
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	if result.RowsAffected() == 0 {
		return portfolio.ErrPortfolioNotFound
	}

	return nil
}

// Delete deletes a portfolio by ID. Cash flows and funding sources
// belonging to the portfolio are removed by FK cascade.
func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM portfolios WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	if result.RowsAffected() == 0 {
		return portfolio.ErrPortfolioNotFound
	}

	return nil
}

// ExistsByUserAndName checks if a portfolio with the given name exists for the user
func (r *PortfolioRepository) ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM portfolios WHERE user_id = $1 AND name = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check portfolio existence: %w", err)
	}

	return exists, nil
}
