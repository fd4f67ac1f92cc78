package trade

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// TradeSettlementHandler builds records for cash movements that settle
// an earlier trade, such as a clearing-house debit on T+2. Settlements
// reference the order they settle and count as outflow.
type TradeSettlementHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewTradeSettlementHandler creates a new trade-settlement handler
func NewTradeSettlementHandler(log *logger.Logger) *TradeSettlementHandler {
	return &TradeSettlementHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeTradeSettlement),
		logger:      log.WithField("component", "trade"),
	}
}

// Validate checks the trade-settlement command
func (h *TradeSettlementHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
	if err := h.ValidateCommon(cmd); err != nil {
		return err
	}

	if cmd.Reference == "" {
		return ErrMissingReference
	}

	if cmd.FlowDate.After(time.Now()) {
		return ErrFutureFlowDate
	}

	return nil
}

// Build constructs the trade-settlement record
func (h *TradeSettlementHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("trade settlement built", "portfolio_id", cmd.PortfolioID, "reference", cmd.Reference)
	return rec, nil
}
