package statement_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/internal/module/statement"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// ===== Mocks =====

type MockFlowReader struct {
	mock.Mock
}

func (m *MockFlowReader) List(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter, page cashflow.Page) ([]*cashflow.Record, cashflow.Pagination, error) {
	args := m.Called(ctx, portfolioID, filter, page)
	var records []*cashflow.Record
	if args.Get(0) != nil {
		records = args.Get(0).([]*cashflow.Record)
	}
	return records, args.Get(1).(cashflow.Pagination), args.Error(2)
}

func (m *MockFlowReader) Summary(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter) (*cashflow.Summary, error) {
	args := m.Called(ctx, portfolioID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.Summary), args.Error(1)
}

// ===== Helpers =====

func newStatementService(flows *MockFlowReader) *statement.Service {
	return statement.NewService(flows, logger.New("test", io.Discard))
}

func stmtRecord(recType cashflow.Type, amount, status, flowDate, currency string) *cashflow.Record {
	day, err := time.Parse("2006-01-02", flowDate)
	if err != nil {
		panic(err)
	}
	return &cashflow.Record{
		ID:          uuid.New(),
		PortfolioID: uuid.New(),
		Type:        recType,
		Amount:      decimal.RequireFromString(amount),
		Status:      cashflow.Status(status),
		FlowDate:    day.UTC(),
		Currency:    currency,
	}
}

// ===== Tests =====

func TestStatementService_Build(t *testing.T) {
	ctx := context.Background()
	portfolioID := uuid.New()
	filter := cashflow.Filter{}
	page := cashflow.Page{Page: 1, Limit: 20}

	t.Run("assembles grouped statement with summary", func(t *testing.T) {
		records := []*cashflow.Record{
			stmtRecord(cashflow.TypeDeposit, "1000", "COMPLETED", "2024-01-06", "USD"),
			stmtRecord(cashflow.TypeFee, "300.50", "COMPLETED", "2024-01-05", "USD"),
		}
		pagination := cashflow.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1}
		summary := &cashflow.Summary{
			TotalInflow:  decimal.RequireFromString("1000"),
			TotalOutflow: decimal.RequireFromString("300.50"),
			Net:          decimal.RequireFromString("699.50"),
			Count:        2,
		}

		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).Return(records, pagination, nil)
		flows.On("Summary", ctx, portfolioID, filter).Return(summary, nil)

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.NoError(t, err)
		require.Len(t, stmt.Groups, 2)
		assert.True(t, stmt.GroupedByDate)

		first := stmt.Groups[0]
		assert.Equal(t, "2024-01-06", first.Key)
		assert.Equal(t, "Jan 06, 2024", first.Label)
		assert.Equal(t, "1000", first.Subtotal)
		assert.Equal(t, "$1,000.00", first.DisplaySubtotal)
		assert.Equal(t, 1, first.Count)

		second := stmt.Groups[1]
		assert.Equal(t, "2024-01-05", second.Key)
		assert.Equal(t, "-300.5", second.Subtotal)
		assert.Equal(t, "-$300.50", second.DisplaySubtotal)

		assert.Equal(t, "699.5", stmt.FilteredTotal)

		require.NotNil(t, stmt.Summary)
		assert.Equal(t, "1000", stmt.Summary.TotalInflow)
		assert.Equal(t, "300.5", stmt.Summary.TotalOutflow)
		assert.Equal(t, "699.5", stmt.Summary.Net)
		assert.Equal(t, "$699.50", stmt.Summary.DisplayNet)
		assert.Equal(t, 2, stmt.Summary.Count)

		assert.Equal(t, statement.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1}, stmt.Pagination)
		flows.AssertExpectations(t)
	})

	t.Run("renders record fields", func(t *testing.T) {
		rec := stmtRecord(cashflow.TypeBuyTrade, "1520.75", "COMPLETED", "2024-01-05", "")
		rec.Description = "AAPL 10 @ 152.075"
		rec.Reference = "ORD-2024-00042"
		rec.FundingSource = "Brokerage"

		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return([]*cashflow.Record{rec}, cashflow.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, nil)
		flows.On("Summary", ctx, portfolioID, filter).
			Return(&cashflow.Summary{Net: decimal.Zero}, nil)

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.NoError(t, err)
		require.Len(t, stmt.Groups, 1)
		require.Len(t, stmt.Groups[0].Records, 1)

		item := stmt.Groups[0].Records[0]
		assert.Equal(t, rec.ID.String(), item.ID)
		assert.Equal(t, "BUY_TRADE", item.Type)
		assert.Equal(t, "Buy Trade", item.TypeLabel)
		assert.Equal(t, "outflow", item.Direction)
		assert.Equal(t, "1520.75", item.Amount)
		assert.Equal(t, "-$1,520.75", item.DisplayAmount)
		assert.Equal(t, "COMPLETED", item.Status)
		assert.Equal(t, "2024-01-05", item.FlowDate)
		assert.Equal(t, "AAPL 10 @ 152.075", item.Description)
		assert.Equal(t, "ORD-2024-00042", item.Reference)
		assert.Equal(t, "Brokerage", item.FundingSource)
		assert.Equal(t, "USD", item.Currency, "empty record currency falls back to the portfolio currency")
	})

	t.Run("record currency wins over portfolio currency", func(t *testing.T) {
		rec := stmtRecord(cashflow.TypeDividend, "50", "COMPLETED", "2024-01-05", "EUR")

		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return([]*cashflow.Record{rec}, cashflow.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, nil)
		flows.On("Summary", ctx, portfolioID, filter).
			Return(&cashflow.Summary{Net: decimal.Zero}, nil)

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.NoError(t, err)
		item := stmt.Groups[0].Records[0]
		assert.Equal(t, "EUR", item.Currency)
		assert.Equal(t, "€50.00", item.DisplayAmount)
	})

	t.Run("renders maturity date for term deposits", func(t *testing.T) {
		rec := stmtRecord(cashflow.TypeDepositCreation, "2000", "COMPLETED", "2024-01-05", "USD")
		matures := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
		rec.MaturesOn = &matures
		rec.Reference = "TD-abc"

		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return([]*cashflow.Record{rec}, cashflow.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, nil)
		flows.On("Summary", ctx, portfolioID, filter).
			Return(&cashflow.Summary{Net: decimal.Zero}, nil)

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.NoError(t, err)
		assert.Equal(t, "2024-07-05", stmt.Groups[0].Records[0].MaturesOn)
	})

	t.Run("ungrouped statement has a single group", func(t *testing.T) {
		records := []*cashflow.Record{
			stmtRecord(cashflow.TypeDeposit, "1000", "COMPLETED", "2024-01-06", "USD"),
			stmtRecord(cashflow.TypeWithdrawal, "250", "COMPLETED", "2024-01-02", "USD"),
		}

		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return(records, cashflow.Pagination{Page: 1, Limit: 20, Total: 2, TotalPages: 1}, nil)
		flows.On("Summary", ctx, portfolioID, filter).
			Return(&cashflow.Summary{Net: decimal.RequireFromString("750")}, nil)

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, false)

		require.NoError(t, err)
		assert.False(t, stmt.GroupedByDate)
		require.Len(t, stmt.Groups, 1)
		assert.Equal(t, "all", stmt.Groups[0].Key)
		assert.Equal(t, "All Transactions", stmt.Groups[0].Label)
		assert.Len(t, stmt.Groups[0].Records, 2)
	})

	t.Run("summary failure degrades to a statement without totals", func(t *testing.T) {
		records := []*cashflow.Record{
			stmtRecord(cashflow.TypeDeposit, "1000", "COMPLETED", "2024-01-06", "USD"),
		}

		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return(records, cashflow.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}, nil)
		flows.On("Summary", ctx, portfolioID, filter).
			Return(nil, errors.New("redis: connection refused"))

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.NoError(t, err)
		assert.Nil(t, stmt.Summary)
		require.Len(t, stmt.Groups, 1)
	})

	t.Run("list failure fails the build", func(t *testing.T) {
		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return(nil, cashflow.Pagination{}, errors.New("connection reset"))

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.Error(t, err)
		assert.Nil(t, stmt)
		assert.Contains(t, err.Error(), "failed to list cash flows")
		flows.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty page yields an empty grouped statement", func(t *testing.T) {
		flows := new(MockFlowReader)
		flows.On("List", ctx, portfolioID, filter, page).
			Return([]*cashflow.Record{}, cashflow.Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 0}, nil)
		flows.On("Summary", ctx, portfolioID, filter).
			Return(&cashflow.Summary{Net: decimal.Zero}, nil)

		stmt, err := newStatementService(flows).Build(ctx, portfolioID, "USD", filter, page, true)

		require.NoError(t, err)
		assert.Empty(t, stmt.Groups)
		assert.Equal(t, "0", stmt.FilteredTotal)
	})
}
