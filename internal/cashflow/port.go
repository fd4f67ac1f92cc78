package cashflow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Page is the requested slice of a record listing
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps the page request to sane bounds
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes the server-computed position of a page within
// the filtered total
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination builds pagination metadata from a page request and the
// filtered total row count
func NewPagination(p Page, total int) Pagination {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}

// Repository defines the persistence interface for cash-flow records
type Repository interface {
	// Record operations
	Create(ctx context.Context, record *Record) error
	Get(ctx context.Context, portfolioID, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, record *Record) error
	Delete(ctx context.Context, portfolioID, id uuid.UUID) error

	// List returns one page of the filtered record set, newest flow
	// date first, along with pagination computed from the filtered
	// total (not the page length).
	List(ctx context.Context, portfolioID uuid.UUID, filter Filter, page Page) ([]*Record, Pagination, error)

	// ListAll returns the complete filtered record set without
	// pagination. Summary totals must always come from this set.
	ListAll(ctx context.Context, portfolioID uuid.UUID, filter Filter) ([]*Record, error)

	// ListMaturedUnsettled returns COMPLETED term-deposit creations
	// whose maturity date has passed and that have no settlement
	// record sharing their reference.
	ListMaturedUnsettled(ctx context.Context, asOf time.Time) ([]*Record, error)

	// Transaction management
	BeginTx(ctx context.Context) (context.Context, error)
	CommitTx(ctx context.Context) error
	RollbackTx(ctx context.Context) error
}

// SummaryCache caches computed summaries per portfolio and filter.
// Implementations keep a short-lived fresh entry plus a long-lived
// stale entry used as a fallback when recomputation fails.
type SummaryCache interface {
	Get(ctx context.Context, portfolioID uuid.UUID, filterKey string) (*Summary, bool)
	GetStale(ctx context.Context, portfolioID uuid.UUID, filterKey string) (*Summary, bool)
	Set(ctx context.Context, portfolioID uuid.UUID, filterKey string, summary *Summary)
	Invalidate(ctx context.Context, portfolioID uuid.UUID)
}
