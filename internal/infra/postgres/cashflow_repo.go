package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cashfolio/cashfolio/internal/cashflow"
)

// CashFlowRepository implements the cash-flow repository using PostgreSQL
type CashFlowRepository struct {
	pool *pgxpool.Pool
}

// NewCashFlowRepository creates a new PostgreSQL cash-flow repository
func NewCashFlowRepository(pool *pgxpool.Pool) *CashFlowRepository {
	return &CashFlowRepository{pool: pool}
}

// Create inserts a new cash-flow record
func (r *CashFlowRepository) Create(ctx context.Context, record *cashflow.Record) error {
	query := `
		INSERT INTO cash_flows (id, portfolio_id, type, amount, status, flow_date, description, reference, funding_source, currency, matures_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	q := r.getQueryer(ctx)
	_, err := q.Exec(ctx, query,
		record.ID,
		record.PortfolioID,
		string(record.Type),
		record.Amount.String(),
		string(record.Status),
		record.FlowDate,
		record.Description,
		record.Reference,
		record.FundingSource,
		record.Currency,
		record.MaturesOn,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cash flow: %w", err)
	}

	return nil
}

// Get retrieves a record by ID scoped to a portfolio
func (r *CashFlowRepository) Get(ctx context.Context, portfolioID, id uuid.UUID) (*cashflow.Record, error) {
	query := `
		SELECT id, portfolio_id, type, amount::text, status, flow_date, description, reference, funding_source, currency, matures_on, created_at, updated_at
		FROM cash_flows
		WHERE portfolio_id = $1 AND id = $2
	`

	q := r.getQueryer(ctx)
	record, err := scanRecord(q.QueryRow(ctx, query, portfolioID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cashflow.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get cash flow: %w", err)
	}

	return record, nil
}

// Update writes the mutable fields of an existing record
func (r *CashFlowRepository) Update(ctx context.Context, record *cashflow.Record) error {
	query := `
		UPDATE cash_flows
		SET amount = $1, status = $2, flow_date = $3, description = $4, reference = $5, funding_source = $6, currency = $7, matures_on = $8, updated_at = $9
		WHERE portfolio_id = $10 AND id = $11
	`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query,
		record.Amount.String(),
		string(record.Status),
		record.FlowDate,
		record.Description,
		record.Reference,
		record.FundingSource,
		record.Currency,
		record.MaturesOn,
		record.UpdatedAt,
		record.PortfolioID,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash flow: %w", err)
	}

	if result.RowsAffected() == 0 {
		return cashflow.ErrRecordNotFound
	}

	return nil
}

// Delete removes a record by ID scoped to a portfolio
func (r *CashFlowRepository) Delete(ctx context.Context, portfolioID, id uuid.UUID) error {
	query := `DELETE FROM cash_flows WHERE portfolio_id = $1 AND id = $2`

	q := r.getQueryer(ctx)
	result, err := q.Exec(ctx, query, portfolioID, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash flow: %w", err)
	}

	if result.RowsAffected() == 0 {
		return cashflow.ErrRecordNotFound
	}

	return nil
}

// List returns one page of the filtered record set, newest first.
// Pagination totals come from a COUNT over the same filter, so the
// metadata reflects the whole filtered set rather than the page.
func (r *CashFlowRepository) List(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter, page cashflow.Page) ([]*cashflow.Record, cashflow.Pagination, error) {
	where, args := buildFilterWhere(portfolioID, filter)
	q := r.getQueryer(ctx)

	countQuery := "SELECT COUNT(*) FROM cash_flows " + where

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, cashflow.Pagination{}, fmt.Errorf("failed to count cash flows: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, portfolio_id, type, amount::text, status, flow_date, description, reference, funding_source, currency, matures_on, created_at, updated_at
		FROM cash_flows
		%s
		ORDER BY flow_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, cashflow.Pagination{}, fmt.Errorf("failed to query cash flows: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, cashflow.Pagination{}, err
	}

	return records, cashflow.NewPagination(page, total), nil
}

// ListAll returns the complete filtered record set without pagination
func (r *CashFlowRepository) ListAll(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter) ([]*cashflow.Record, error) {
	where, args := buildFilterWhere(portfolioID, filter)

	query := fmt.Sprintf(`
		SELECT id, portfolio_id, type, amount::text, status, flow_date, description, reference, funding_source, currency, matures_on, created_at, updated_at
		FROM cash_flows
		%s
		ORDER BY flow_date DESC, created_at DESC
	`, where)

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flows: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListMaturedUnsettled returns completed term-deposit creations whose
// maturity date has passed and whose reference has no settlement yet.
func (r *CashFlowRepository) ListMaturedUnsettled(ctx context.Context, asOf time.Time) ([]*cashflow.Record, error) {
	query := `
		SELECT d.id, d.portfolio_id, d.type, d.amount::text, d.status, d.flow_date, d.description, d.reference, d.funding_source, d.currency, d.matures_on, d.created_at, d.updated_at
		FROM cash_flows d
		WHERE d.type = $1
		  AND d.status = $2
		  AND d.matures_on IS NOT NULL
		  AND d.matures_on <= $3
		  AND NOT EXISTS (
			SELECT 1 FROM cash_flows s
			WHERE s.portfolio_id = d.portfolio_id
			  AND s.type = $4
			  AND s.reference = d.reference
		  )
		ORDER BY d.matures_on ASC
	`

	q := r.getQueryer(ctx)
	rows, err := q.Query(ctx, query,
		string(cashflow.TypeDepositCreation),
		string(cashflow.StatusCompleted),
		asOf,
		string(cashflow.TypeDepositSettlement),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query matured deposits: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// buildFilterWhere translates a record filter into a WHERE clause.
// Type and date restrictions are optional; the portfolio scope is not.
func buildFilterWhere(portfolioID uuid.UUID, filter cashflow.Filter) (string, []any) {
	where := "WHERE portfolio_id = $1"
	args := []any{portfolioID}
	argPos := 2

	if !filter.Unrestricted() {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		where += fmt.Sprintf(" AND type = ANY($%d)", argPos)
		args = append(args, types)
		argPos++
	}

	if filter.StartDate != nil {
		where += fmt.Sprintf(" AND flow_date >= $%d", argPos)
		args = append(args, *filter.StartDate)
		argPos++
	}

	if filter.EndDate != nil {
		where += fmt.Sprintf(" AND flow_date <= $%d", argPos)
		args = append(args, *filter.EndDate)
		argPos++
	}

	return where, args
}

// scanRecord scans a single cash-flow row
func scanRecord(row pgx.Row) (*cashflow.Record, error) {
	var record cashflow.Record
	var amountStr string
	var maturesOn sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.PortfolioID,
		&record.Type,
		&amountStr,
		&record.Status,
		&record.FlowDate,
		&record.Description,
		&record.Reference,
		&record.FundingSource,
		&record.Currency,
		&maturesOn,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %s", amountStr)
	}
	record.Amount = amount

	if maturesOn.Valid {
		m := maturesOn.Time
		record.MaturesOn = &m
	}

	return &record, nil
}

func collectRecords(rows pgx.Rows) ([]*cashflow.Record, error) {
	var records []*cashflow.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash flow: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flows: %w", err)
	}

	return records, nil
}

// Transaction management using pgx transactions
// Transactions are stored in context using txContextKey

type ctxKey string

const txContextKey ctxKey = "cashflow_tx"

// BeginTx starts a new database transaction and stores it in the context
func (r *CashFlowRepository) BeginTx(ctx context.Context) (context.Context, error) {
	if tx := r.getTxFromContext(ctx); tx != nil {
		return ctx, fmt.Errorf("transaction already in progress")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ctx, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return context.WithValue(ctx, txContextKey, tx), nil
}

// CommitTx commits the database transaction from the context
func (r *CashFlowRepository) CommitTx(ctx context.Context) error {
	tx := r.getTxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("no transaction in context")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RollbackTx rolls back the database transaction from the context
func (r *CashFlowRepository) RollbackTx(ctx context.Context) error {
	tx := r.getTxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("no transaction in context")
	}

	if err := tx.Rollback(ctx); err != nil {
		// Ignore already rolled back or committed errors
		if errors.Is(err, pgx.ErrTxClosed) {
			return nil
		}
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

func (r *CashFlowRepository) getTxFromContext(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(txContextKey).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// getQueryer returns the transaction if one exists in context, otherwise the pool.
// This allows all repository methods to work both inside and outside transactions.
func (r *CashFlowRepository) getQueryer(ctx context.Context) interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
} {
	if tx := r.getTxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}
