package manual_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/internal/module/manual"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test", io.Discard)
}

func manualCommand(t cashflow.Type) cashflow.CreateCommand {
	return cashflow.CreateCommand{
		PortfolioID: uuid.New(),
		Type:        t,
		Amount:      decimal.NewFromInt(25),
		FlowDate:    time.Now().Add(-24 * time.Hour),
		Description: "VTI quarterly dividend",
	}
}

func TestIncomeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("builds dividend and interest records", func(t *testing.T) {
		testCases := []struct {
			handler interface {
				Type() cashflow.Type
				Validate(context.Context, cashflow.CreateCommand) error
				Build(context.Context, cashflow.CreateCommand) (*cashflow.Record, error)
			}
			recType cashflow.Type
		}{
			{manual.NewDividendHandler(testLogger()), cashflow.TypeDividend},
			{manual.NewInterestHandler(testLogger()), cashflow.TypeInterest},
		}

		for _, tc := range testCases {
			t.Run(string(tc.recType), func(t *testing.T) {
				cmd := manualCommand(tc.recType)
				require.NoError(t, tc.handler.Validate(ctx, cmd))

				rec, err := tc.handler.Build(ctx, cmd)
				require.NoError(t, err)
				assert.Equal(t, tc.recType, rec.Type)
				assert.True(t, rec.Type.IsInflow())
			})
		}
	})

	t.Run("requires a description", func(t *testing.T) {
		h := manual.NewDividendHandler(testLogger())
		cmd := manualCommand(cashflow.TypeDividend)
		cmd.Description = ""

		assert.ErrorIs(t, h.Validate(ctx, cmd), manual.ErrMissingDescription)
	})

	t.Run("rejects future flow date", func(t *testing.T) {
		h := manual.NewInterestHandler(testLogger())
		cmd := manualCommand(cashflow.TypeInterest)
		cmd.FlowDate = time.Now().Add(time.Hour)

		assert.ErrorIs(t, h.Validate(ctx, cmd), manual.ErrFutureFlowDate)
	})
}

func TestOutcomeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("builds fee and tax records", func(t *testing.T) {
		feeHandler := manual.NewFeeHandler(testLogger())
		taxHandler := manual.NewTaxHandler(testLogger())

		feeRec, err := feeHandler.Build(ctx, manualCommand(cashflow.TypeFee))
		require.NoError(t, err)
		assert.Equal(t, cashflow.TypeFee, feeRec.Type)
		assert.False(t, feeRec.Type.IsInflow())

		taxRec, err := taxHandler.Build(ctx, manualCommand(cashflow.TypeTax))
		require.NoError(t, err)
		assert.Equal(t, cashflow.TypeTax, taxRec.Type)
		assert.False(t, taxRec.Type.IsInflow())
	})

	t.Run("requires a description", func(t *testing.T) {
		h := manual.NewTaxHandler(testLogger())
		cmd := manualCommand(cashflow.TypeTax)
		cmd.Description = ""

		assert.ErrorIs(t, h.Validate(ctx, cmd), manual.ErrMissingDescription)
	})
}
