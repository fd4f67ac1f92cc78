package trade

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// SellTradeHandler builds records for cash entering the portfolio from
// security sales
type SellTradeHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewSellTradeHandler creates a new sell-trade handler
func NewSellTradeHandler(log *logger.Logger) *SellTradeHandler {
	return &SellTradeHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeSellTrade),
		logger:      log.WithField("component", "trade"),
	}
}

// Validate checks the sell-trade command
func (h *SellTradeHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
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

// Build constructs the sell-trade record
func (h *SellTradeHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("sell trade built", "portfolio_id", cmd.PortfolioID, "reference", cmd.Reference)
	return rec, nil
}
