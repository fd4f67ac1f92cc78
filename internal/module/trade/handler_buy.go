package trade

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// BuyTradeHandler builds records for cash leaving the portfolio to
// purchase securities. Every trade leg carries the broker order
// reference so settlements can be matched back to it.
type BuyTradeHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewBuyTradeHandler creates a new buy-trade handler
func NewBuyTradeHandler(log *logger.Logger) *BuyTradeHandler {
	return &BuyTradeHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeBuyTrade),
		logger:      log.WithField("component", "trade"),
	}
}

// Validate checks the buy-trade command
func (h *BuyTradeHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
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

// Build constructs the buy-trade record
func (h *BuyTradeHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("buy trade built", "portfolio_id", cmd.PortfolioID, "reference", cmd.Reference)
	return rec, nil
}
