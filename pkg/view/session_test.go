package view_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/pkg/client"
	"github.com/cashfolio/cashfolio/pkg/logger"
	"github.com/cashfolio/cashfolio/pkg/view"
)

// fakeFetcher records queries and serves canned results. The function
// fields let individual tests block or fail specific calls.
type fakeFetcher struct {
	mu        sync.Mutex
	stmtCalls []client.StatementQuery
	sumCalls  []client.SummaryQuery
	stmtFn    func(q client.StatementQuery) (*client.Statement, error)
	sumFn     func(q client.SummaryQuery) (*client.Summary, error)
}

func (f *fakeFetcher) Statement(ctx context.Context, portfolioID string, q client.StatementQuery) (*client.Statement, error) {
	f.mu.Lock()
	f.stmtCalls = append(f.stmtCalls, q)
	fn := f.stmtFn
	f.mu.Unlock()

	if fn != nil {
		return fn(q)
	}
	return pageStatement(q.Page), nil
}

func (f *fakeFetcher) Summary(ctx context.Context, portfolioID string, q client.SummaryQuery) (*client.Summary, error) {
	f.mu.Lock()
	f.sumCalls = append(f.sumCalls, q)
	fn := f.sumFn
	f.mu.Unlock()

	if fn != nil {
		return fn(q)
	}
	return &client.Summary{TotalInflow: "1000", TotalOutflow: "300", Net: "700", Count: 3}, nil
}

func (f *fakeFetcher) stmtCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stmtCalls)
}

func (f *fakeFetcher) sumCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sumCalls)
}

func (f *fakeFetcher) lastStmtQuery() client.StatementQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stmtCalls[len(f.stmtCalls)-1]
}

func pageStatement(page int) *client.Statement {
	if page < 1 {
		page = 1
	}
	return &client.Statement{
		Groups: []client.Group{
			{Key: "2024-01-06", Label: "Jan 06, 2024", Records: []client.CashFlow{{ID: "fee"}}, Count: 1},
			{Key: "2024-01-05", Label: "Jan 05, 2024", Records: []client.CashFlow{{ID: "dep"}, {ID: "wd"}}, Count: 2},
		},
		FilteredTotal: "700",
		Pagination:    client.Pagination{Page: page, Limit: 20, Total: 3, TotalPages: 1},
		GroupedByDate: true,
	}
}

func newTestSession(f *fakeFetcher, opts ...view.Option) *view.Session {
	log := logger.New("development", io.Discard)
	opts = append([]view.Option{view.WithDebounce(0)}, opts...)
	return view.NewSession(f, "p1", log, opts...)
}

func TestSession_LoadPopulatesBothSlots(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	s.Load()
	s.Flush()

	groups := s.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-01-06", groups[0].Key)
	assert.Equal(t, "700", s.FilteredTotal())
	assert.Equal(t, 1, s.Pagination().Page)

	summary := s.Summary()
	require.NotNil(t, summary)
	assert.Equal(t, "700", summary.Net)
	assert.Equal(t, 3, summary.Count)

	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "fee", records[0].ID)

	assert.NoError(t, s.Err())
}

func TestSession_ReadsBeforeLoadAreEmpty(t *testing.T) {
	s := newTestSession(&fakeFetcher{})
	defer s.Close()

	assert.Nil(t, s.Groups())
	assert.Nil(t, s.Records())
	assert.Nil(t, s.Summary())
	assert.Equal(t, "0", s.FilteredTotal())
	assert.Equal(t, client.Pagination{}, s.Pagination())
	assert.NoError(t, s.Err())
}

func TestSession_SetFilterValidation(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	t.Run("unparseable start date is rejected", func(t *testing.T) {
		err := s.SetFilter(view.Filter{StartDate: "01/05/2024"})
		assert.ErrorIs(t, err, view.ErrInvalidStartDate)
	})

	t.Run("unparseable end date is rejected", func(t *testing.T) {
		err := s.SetFilter(view.Filter{EndDate: "tomorrow"})
		assert.ErrorIs(t, err, view.ErrInvalidEndDate)
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		err := s.SetFilter(view.Filter{StartDate: "2024-02-01", EndDate: "2024-01-01"})
		assert.ErrorIs(t, err, view.ErrEndBeforeStart)
	})

	t.Run("rejected filters never fetch", func(t *testing.T) {
		s.Flush()
		assert.Zero(t, fetcher.stmtCount())
		assert.Zero(t, fetcher.sumCount())
		assert.Empty(t, s.Filter().StartDate)
	})
}

func TestSession_SetFilterResetsPageAndRefetchesBoth(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	s.Load()
	s.SetPage(3)
	s.Flush()
	require.Equal(t, 2, fetcher.stmtCount())
	require.Equal(t, 1, fetcher.sumCount())

	require.NoError(t, s.SetFilter(view.Filter{Types: []string{"DEPOSIT"}, StartDate: "2024-01-01"}))
	s.Flush()

	assert.Equal(t, 3, fetcher.stmtCount())
	assert.Equal(t, 2, fetcher.sumCount())

	q := fetcher.lastStmtQuery()
	assert.Equal(t, 1, q.Page, "filter change returns to the first page")
	assert.Equal(t, []string{"DEPOSIT"}, q.Types)
	assert.Equal(t, "2024-01-01", q.StartDate)
}

func TestSession_AllSentinelClearsTypeRestriction(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	require.NoError(t, s.SetFilter(view.Filter{Types: []string{view.TypeAll}}))
	s.Flush()

	assert.Nil(t, fetcher.lastStmtQuery().Types)
}

func TestSession_PageAndLimitTouchOnlyTheStatementSlot(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	s.Load()
	s.Flush()

	s.SetPage(2)
	s.Flush()
	assert.Equal(t, 2, fetcher.stmtCount())
	assert.Equal(t, 1, fetcher.sumCount(), "summary is independent of pagination")
	assert.Equal(t, 2, s.Pagination().Page)

	s.SetLimit(50)
	s.Flush()
	assert.Equal(t, 3, fetcher.stmtCount())
	assert.Equal(t, 1, fetcher.sumCount())

	q := fetcher.lastStmtQuery()
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, 1, q.Page, "limit change returns to the first page")
}

func TestSession_RedundantChangesDoNotRefetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	s.Load()
	s.Flush()
	require.Equal(t, 1, fetcher.stmtCount())

	s.SetPage(1)
	s.SetLimit(20)
	s.SetGrouping(true)
	s.Flush()

	assert.Equal(t, 1, fetcher.stmtCount())
}

func TestSession_DebounceCoalescesFilterChanges(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher, view.WithDebounce(20*time.Millisecond))
	defer s.Close()

	require.NoError(t, s.SetFilter(view.Filter{Types: []string{"DEPOSIT"}}))
	require.NoError(t, s.SetFilter(view.Filter{Types: []string{"FEE"}}))
	require.NoError(t, s.SetFilter(view.Filter{Types: []string{"DIVIDEND"}}))

	assert.Zero(t, fetcher.stmtCount(), "nothing fires inside the debounce window")

	require.Eventually(t, func() bool {
		return fetcher.stmtCount() == 1 && fetcher.sumCount() == 1
	}, time.Second, 5*time.Millisecond, "exactly one fetch pair after the burst")

	assert.Equal(t, []string{"DIVIDEND"}, fetcher.lastStmtQuery().Types)
	assert.Equal(t, []string{"DIVIDEND"}, s.Filter().Types)
}

func TestSession_LaterFetchWinsRegardlessOfArrivalOrder(t *testing.T) {
	release := make(chan struct{})
	fetcher := &fakeFetcher{}
	fetcher.stmtFn = func(q client.StatementQuery) (*client.Statement, error) {
		// The page-2 fetch resolves only after the page-3 fetch has
		// already applied
		if q.Page == 2 {
			<-release
		}
		return pageStatement(q.Page), nil
	}

	s := newTestSession(fetcher)
	defer s.Close()

	s.SetPage(2)
	s.SetPage(3)

	require.Eventually(t, func() bool {
		return s.Pagination().Page == 3
	}, time.Second, 5*time.Millisecond)

	close(release)
	s.Flush()

	assert.Equal(t, 3, s.Pagination().Page, "the earlier-issued result must not overwrite the later one")
}

func TestSession_FailedFetchKeepsStaleData(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	s.Load()
	s.Flush()
	require.Len(t, s.Groups(), 2)
	require.NotNil(t, s.Summary())

	fetchErr := errors.New("backend unavailable")
	fetcher.mu.Lock()
	fetcher.stmtFn = func(q client.StatementQuery) (*client.Statement, error) { return nil, fetchErr }
	fetcher.sumFn = func(q client.SummaryQuery) (*client.Summary, error) { return nil, fetchErr }
	fetcher.mu.Unlock()

	s.Refresh()
	s.Flush()

	assert.ErrorIs(t, s.Err(), fetchErr)
	assert.Len(t, s.Groups(), 2, "prior statement stays readable")
	assert.NotNil(t, s.Summary(), "prior summary stays readable")
	assert.Equal(t, "700", s.Summary().Net)

	// Recovery clears the error
	fetcher.mu.Lock()
	fetcher.stmtFn = nil
	fetcher.sumFn = nil
	fetcher.mu.Unlock()

	s.Refresh()
	s.Flush()
	assert.NoError(t, s.Err())
}

func TestSession_CollapseFollowsTheRecordSet(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher)
	defer s.Close()

	s.Load()
	s.Flush()

	s.ToggleGroup("2024-01-06")
	assert.True(t, s.GroupCollapsed("2024-01-06"))
	assert.False(t, s.GroupCollapsed("2024-01-05"))

	// Partial state: collapse-all collapses the rest
	s.ToggleAllGroups()
	assert.True(t, s.GroupCollapsed("2024-01-06"))
	assert.True(t, s.GroupCollapsed("2024-01-05"))

	// Uniform collapsed state: collapse-all expands everything
	s.ToggleAllGroups()
	assert.False(t, s.GroupCollapsed("2024-01-06"))
	assert.False(t, s.GroupCollapsed("2024-01-05"))

	// A new record set resets collapse to all-expanded
	s.ToggleGroup("2024-01-06")
	s.SetPage(2)
	s.Flush()
	assert.False(t, s.GroupCollapsed("2024-01-06"))
}

func TestSession_CloseStopsWork(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher, view.WithDebounce(100*time.Millisecond))

	s.Load()
	s.Flush()
	calls := fetcher.stmtCount()

	require.NoError(t, s.SetFilter(view.Filter{Types: []string{"FEE"}}))
	s.Close()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, calls, fetcher.stmtCount(), "pending debounced filter must not fire after close")

	// Close is idempotent and later calls are no-ops
	s.Close()
	s.SetPage(5)
	s.Refresh()
	assert.Equal(t, calls, fetcher.stmtCount())
}
