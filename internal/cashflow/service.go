package cashflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service orchestrates cash-flow record operations.
// Creation dispatches through the handler registry so each record type
// keeps its own validation and defaults; reads stay a pure view over
// the repository's current state.
type Service struct {
	repo     Repository
	registry *Registry
	cache    SummaryCache
}

// NewService creates a new cash-flow service. The cache is optional;
// a nil cache disables summary caching.
func NewService(repo Repository, registry *Registry, cache SummaryCache) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		cache:    cache,
	}
}

// Create records a new cash flow through the handler for its type
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	h, err := s.registry.Get(cmd.Type)
	if err != nil {
		return nil, fmt.Errorf("cash flow type not supported: %w", err)
	}

	if err := h.Validate(ctx, cmd); err != nil {
		return nil, err
	}

	rec, err := h.Build(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to build record: %w", err)
	}

	s.stamp(rec)

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.invalidate(ctx, rec.PortfolioID)
	return rec, nil
}

// CreateLinked records several cash flows atomically: either every
// command commits or none does. Used for operations that must land as
// a unit, such as the two legs of a funding-source transfer.
func (s *Service) CreateLinked(ctx context.Context, cmds []CreateCommand) ([]*Record, error) {
	if len(cmds) == 0 {
		return nil, nil
	}

	records := make([]*Record, 0, len(cmds))
	for _, cmd := range cmds {
		h, err := s.registry.Get(cmd.Type)
		if err != nil {
			return nil, fmt.Errorf("cash flow type not supported: %w", err)
		}

		if err := h.Validate(ctx, cmd); err != nil {
			return nil, err
		}

		rec, err := h.Build(ctx, cmd)
		if err != nil {
			return nil, fmt.Errorf("failed to build record: %w", err)
		}

		s.stamp(rec)

		if err := rec.Validate(); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	txCtx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = s.repo.RollbackTx(txCtx)
		}
	}()

	for _, rec := range records {
		if err := s.repo.Create(txCtx, rec); err != nil {
			return nil, fmt.Errorf("failed to create record: %w", err)
		}
	}

	if err := s.repo.CommitTx(txCtx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	seen := make(map[uuid.UUID]bool)
	for _, rec := range records {
		if !seen[rec.PortfolioID] {
			seen[rec.PortfolioID] = true
			s.invalidate(ctx, rec.PortfolioID)
		}
	}

	return records, nil
}

// Get retrieves a single record
func (s *Service) Get(ctx context.Context, portfolioID, id uuid.UUID) (*Record, error) {
	return s.repo.Get(ctx, portfolioID, id)
}

// List returns one page of the filtered record set
func (s *Service) List(ctx context.Context, portfolioID uuid.UUID, filter Filter, page Page) ([]*Record, Pagination, error) {
	if err := filter.Validate(); err != nil {
		return nil, Pagination{}, err
	}

	return s.repo.List(ctx, portfolioID, filter, page.Normalize())
}

// ListAll returns the complete filtered record set, unpaginated.
// Summary totals are computed from this set, never from a page.
func (s *Service) ListAll(ctx context.Context, portfolioID uuid.UUID, filter Filter) ([]*Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	return s.repo.ListAll(ctx, portfolioID, filter)
}

// UpdateInput carries the editable fields of a record; nil fields are
// left unchanged. Type is immutable after creation.
type UpdateInput struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Status        *Status          `json:"status,omitempty"`
	FlowDate      *time.Time       `json:"flow_date,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Reference     *string          `json:"reference,omitempty"`
	FundingSource *string          `json:"funding_source,omitempty"`
	Currency      *string          `json:"currency,omitempty"`
}

// Update applies a partial update to a record. Cancelled records are
// immutable: the edit is rejected before any field is touched.
func (s *Service) Update(ctx context.Context, portfolioID, id uuid.UUID, in UpdateInput) (*Record, error) {
	rec, err := s.repo.Get(ctx, portfolioID, id)
	if err != nil {
		return nil, err
	}

	if !rec.Editable() {
		return nil, ErrRecordCancelled
	}

	if in.Amount != nil {
		if in.Amount.Sign() <= 0 {
			return nil, ErrInvalidAmount
		}
		rec.Amount = *in.Amount
	}

	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		rec.Status = *in.Status
	}

	if in.FlowDate != nil {
		if in.FlowDate.IsZero() {
			return nil, ErrMissingFlowDate
		}
		rec.FlowDate = *in.FlowDate
	}

	if in.Description != nil {
		rec.Description = *in.Description
	}

	if in.Reference != nil {
		rec.Reference = *in.Reference
	}

	if in.FundingSource != nil {
		rec.FundingSource = *in.FundingSource
	}

	if in.Currency != nil {
		rec.Currency = *in.Currency
	}

	rec.UpdatedAt = time.Now()

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	s.invalidate(ctx, rec.PortfolioID)
	return rec, nil
}

// Delete removes a record. Deletion is allowed for any status,
// including cancelled records.
func (s *Service) Delete(ctx context.Context, portfolioID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, portfolioID, id); err != nil {
		return err
	}

	s.invalidate(ctx, portfolioID)
	return nil
}

// Summary computes aggregate totals over the full filtered record set.
// Results are cached per portfolio and filter; when loading fails a
// stale cached summary is served instead of an error, so a transient
// backend failure never blanks previously shown totals.
func (s *Service) Summary(ctx context.Context, portfolioID uuid.UUID, filter Filter) (*Summary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	key := filter.Fingerprint()

	if s.cache != nil {
		if sum, ok := s.cache.Get(ctx, portfolioID, key); ok {
			return sum, nil
		}
	}

	records, err := s.repo.ListAll(ctx, portfolioID, filter)
	if err != nil {
		if s.cache != nil {
			if sum, ok := s.cache.GetStale(ctx, portfolioID, key); ok {
				return sum, nil
			}
		}
		return nil, fmt.Errorf("failed to load records for summary: %w", err)
	}

	sum := ComputeSummary(records)

	if s.cache != nil {
		s.cache.Set(ctx, portfolioID, key, &sum)
	}

	return &sum, nil
}

// stamp assigns identity and timestamps to a freshly built record
func (s *Service) stamp(rec *Record) {
	now := time.Now()
	rec.ID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now
}

func (s *Service) invalidate(ctx context.Context, portfolioID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, portfolioID)
	}
}
