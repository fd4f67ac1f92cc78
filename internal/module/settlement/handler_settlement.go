package settlement

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// SettlementHandler builds records for a matured term deposit paying
// back into the portfolio. The reference links the payout to the
// deposit-creation record it settles.
type SettlementHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewSettlementHandler creates a new deposit-settlement handler
func NewSettlementHandler(log *logger.Logger) *SettlementHandler {
	return &SettlementHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeDepositSettlement),
		logger:      log.WithField("component", "settlement"),
	}
}

// Validate checks the deposit-settlement command
func (h *SettlementHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
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

// Build constructs the deposit-settlement record
func (h *SettlementHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("term deposit settled", "portfolio_id", cmd.PortfolioID, "reference", cmd.Reference)
	return rec, nil
}
