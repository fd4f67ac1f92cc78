package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cashfolio/cashfolio/pkg/client"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

const (
	defaultDebounce = 300 * time.Millisecond
	defaultLimit    = 20
	dateLayout      = "2006-01-02"

	// TypeAll is the sentinel meaning no type restriction
	TypeAll = "ALL"
)

var (
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidEndDate   = errors.New("invalid end date")
	ErrEndBeforeStart   = errors.New("end date is before start date")
)

// Filter restricts the visible record set. Empty fields mean no
// restriction, as does a Types list containing the ALL sentinel.
type Filter struct {
	Types     []string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// validate rejects unparseable dates and inverted ranges before the
// filter is allowed to touch any fetch
func (f Filter) validate() error {
	var start, end time.Time

	if f.StartDate != "" {
		t, err := time.Parse(dateLayout, f.StartDate)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidStartDate, f.StartDate)
		}
		start = t
	}

	if f.EndDate != "" {
		t, err := time.Parse(dateLayout, f.EndDate)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidEndDate, f.EndDate)
		}
		end = t
	}

	if f.StartDate != "" && f.EndDate != "" && end.Before(start) {
		return ErrEndBeforeStart
	}

	return nil
}

// effectiveTypes resolves the ALL sentinel to an unrestricted filter
func (f Filter) effectiveTypes() []string {
	for _, t := range f.Types {
		if t == TypeAll {
			return nil
		}
	}
	return f.Types
}

// Fetcher is the slice of the API client the session reads through
type Fetcher interface {
	Statement(ctx context.Context, portfolioID string, q client.StatementQuery) (*client.Statement, error)
	Summary(ctx context.Context, portfolioID string, q client.SummaryQuery) (*client.Summary, error)
}

// Session holds the viewing state for one portfolio's cash-flow
// history: the active filter, the current statement page, the summary
// over the whole filtered set, and the collapse state of the date
// groups.
//
// The statement page and the summary live in independent slots, each
// fetched on its own. A slot applies a result only if no newer fetch
// has been issued for it since, so rapid filter changes resolve by
// issuance order regardless of arrival order. A failed fetch records
// the error on its slot and leaves the previous data in place.
type Session struct {
	fetcher     Fetcher
	portfolioID string
	logger      *logger.Logger
	debounce    time.Duration

	mu      sync.Mutex
	filter  Filter
	pending Filter
	timer   *time.Timer
	page    int
	limit   int
	grouped bool

	stmtGen    uint64
	summaryGen uint64

	statement  *client.Statement
	summary    *client.Summary
	stmtErr    error
	summaryErr error

	collapse *CollapseState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Session
type Option func(*Session)

// WithDebounce overrides the filter debounce interval. Zero applies
// filter changes synchronously, which tests rely on.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithLimit overrides the default page size
func WithLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewSession creates a viewing session for one portfolio
func NewSession(fetcher Fetcher, portfolioID string, log *logger.Logger, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		fetcher:     fetcher,
		portfolioID: portfolioID,
		logger:      log.WithField("component", "view_session"),
		debounce:    defaultDebounce,
		page:        1,
		limit:       defaultLimit,
		grouped:     true,
		collapse:    NewCollapseState(),
		ctx:         ctx,
		cancel:      cancel,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load issues the initial fetch of both slots, without debounce
func (s *Session) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.fetchStatementLocked()
	s.fetchSummaryLocked()
}

// SetFilter validates and schedules a filter change. Invalid filters
// are rejected here and never reach a fetch. A valid filter is applied
// after the debounce interval, resetting the page to 1 and refetching
// both the statement and the summary; changes arriving within the
// interval replace the pending filter and restart the clock.
func (s *Session) SetFilter(f Filter) error {
	if err := f.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.pending = f

	if s.debounce <= 0 {
		s.applyPendingLocked()
		return nil
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.applyPending)
	return nil
}

func (s *Session) applyPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.applyPendingLocked()
}

func (s *Session) applyPendingLocked() {
	s.filter = s.pending
	s.page = 1
	s.fetchStatementLocked()
	s.fetchSummaryLocked()
}

// SetPage moves to another statement page. The summary depends only on
// the filter, so its slot is not touched.
func (s *Session) SetPage(page int) {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || page == s.page {
		return
	}
	s.page = page
	s.fetchStatementLocked()
}

// SetLimit changes the page size and returns to the first page
func (s *Session) SetLimit(limit int) {
	if limit < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || limit == s.limit {
		return
	}
	s.limit = limit
	s.page = 1
	s.fetchStatementLocked()
}

// SetGrouping switches between the date-grouped and flat statement
// views
func (s *Session) SetGrouping(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || enabled == s.grouped {
		return
	}
	s.grouped = enabled
	s.fetchStatementLocked()
}

// Refresh refetches both slots with the current filter and page.
// Mutations do not touch the session; callers refresh explicitly once
// a mutation succeeds.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.fetchStatementLocked()
	s.fetchSummaryLocked()
}

func (s *Session) fetchStatementLocked() {
	s.stmtGen++
	gen := s.stmtGen

	q := client.StatementQuery{
		Types:     s.filter.effectiveTypes(),
		StartDate: s.filter.StartDate,
		EndDate:   s.filter.EndDate,
		Page:      s.page,
		Limit:     s.limit,
		Grouped:   s.grouped,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		stmt, err := s.fetcher.Statement(s.ctx, s.portfolioID, q)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || gen != s.stmtGen {
			s.logger.Debug("discarding superseded statement result", "generation", gen)
			return
		}

		if err != nil {
			s.stmtErr = err
			s.logger.WithError(err).Warn("statement fetch failed", "portfolio_id", s.portfolioID)
			return
		}

		s.statement = stmt
		s.stmtErr = nil
		s.collapse.Reset()
	}()
}

func (s *Session) fetchSummaryLocked() {
	s.summaryGen++
	gen := s.summaryGen

	q := client.SummaryQuery{
		Types:     s.filter.effectiveTypes(),
		StartDate: s.filter.StartDate,
		EndDate:   s.filter.EndDate,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		summary, err := s.fetcher.Summary(s.ctx, s.portfolioID, q)

		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || gen != s.summaryGen {
			s.logger.Debug("discarding superseded summary result", "generation", gen)
			return
		}

		if err != nil {
			s.summaryErr = err
			s.logger.WithError(err).Warn("summary fetch failed", "portfolio_id", s.portfolioID)
			return
		}

		s.summary = summary
		s.summaryErr = nil
	}()
}

// Groups returns the date groups of the current statement page
func (s *Session) Groups() []client.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statement == nil {
		return nil
	}
	return s.statement.Groups
}

// Records returns the current page's records in display order,
// flattened across groups
func (s *Session) Records() []client.CashFlow {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statement == nil {
		return nil
	}

	var records []client.CashFlow
	for _, g := range s.statement.Groups {
		records = append(records, g.Records...)
	}
	return records
}

// FilteredTotal returns the signed total of the current page's
// completed records
func (s *Session) FilteredTotal() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statement == nil {
		return "0"
	}
	return s.statement.FilteredTotal
}

// Pagination returns the current page position
func (s *Session) Pagination() client.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statement == nil {
		return client.Pagination{}
	}
	return s.statement.Pagination
}

// Summary returns the aggregate totals over the whole filtered set, or
// nil before the first successful summary fetch
func (s *Session) Summary() *client.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summary
}

// Filter returns the active (applied) filter
func (s *Session) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter
}

// Err returns the most relevant slot error: the statement's, then the
// summary's. Nil when both slots last succeeded. Data from before the
// failure stays readable alongside the error.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stmtErr != nil {
		return s.stmtErr
	}
	return s.summaryErr
}

// ToggleGroup flips the collapse state of one date group
func (s *Session) ToggleGroup(key string) {
	s.collapse.Toggle(key)
}

// ToggleAllGroups applies the tri-state collapse-all rule to the
// current page's groups
func (s *Session) ToggleAllGroups() {
	s.mu.Lock()
	groups := s.groupsLocked()
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	s.mu.Unlock()

	s.collapse.ToggleAll(keys)
}

// GroupCollapsed reports whether a date group is collapsed
func (s *Session) GroupCollapsed(key string) bool {
	return s.collapse.Collapsed(key)
}

func (s *Session) groupsLocked() []client.Group {
	if s.statement == nil {
		return nil
	}
	return s.statement.Groups
}

// Flush blocks until every fetch issued so far has completed. It does
// not wait for a pending debounced filter change.
func (s *Session) Flush() {
	s.wg.Wait()
}

// Close cancels in-flight fetches, stops the debounce timer and waits
// for background work to finish. The session cannot be reused.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
