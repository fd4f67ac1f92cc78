package adjustment_test

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
	"github.com/cashfolio/cashfolio/internal/module/adjustment"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

func adjustmentCommand() cashflow.CreateCommand {
	return cashflow.CreateCommand{
		PortfolioID: uuid.New(),
		Type:        cashflow.TypeAdjustment,
		Amount:      decimal.RequireFromString("12.34"),
		FlowDate:    time.Now().Add(-time.Hour),
		Description: "Reconcile broker statement rounding",
	}
}

func TestHandler(t *testing.T) {
	ctx := context.Background()
	h := adjustment.NewHandler(logger.New("test", io.Discard))

	t.Run("builds an adjustment record", func(t *testing.T) {
		cmd := adjustmentCommand()
		require.NoError(t, h.Validate(ctx, cmd))

		rec, err := h.Build(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, cashflow.TypeAdjustment, rec.Type)
		assert.False(t, rec.Type.IsInflow())
	})

	t.Run("requires a description", func(t *testing.T) {
		cmd := adjustmentCommand()
		cmd.Description = ""

		assert.ErrorIs(t, h.Validate(ctx, cmd), adjustment.ErrMissingDescription)
	})

	t.Run("rejects future flow date", func(t *testing.T) {
		cmd := adjustmentCommand()
		cmd.FlowDate = time.Now().Add(time.Hour)

		assert.ErrorIs(t, h.Validate(ctx, cmd), adjustment.ErrFutureFlowDate)
	})
}
