package manual

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// OutcomeHandler builds manually entered expense records: fees and
// taxes.
type OutcomeHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewFeeHandler creates the handler for fee expenses
func NewFeeHandler(log *logger.Logger) *OutcomeHandler {
	return newOutcomeHandler(cashflow.TypeFee, log)
}

// NewTaxHandler creates the handler for tax expenses
func NewTaxHandler(log *logger.Logger) *OutcomeHandler {
	return newOutcomeHandler(cashflow.TypeTax, log)
}

func newOutcomeHandler(t cashflow.Type, log *logger.Logger) *OutcomeHandler {
	return &OutcomeHandler{
		BaseHandler: cashflow.NewBaseHandler(t),
		logger:      log.WithField("component", "manual"),
	}
}

// Validate checks the expense command
func (h *OutcomeHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
	if err := h.ValidateCommon(cmd); err != nil {
		return err
	}

	if cmd.Description == "" {
		return ErrMissingDescription
	}

	if cmd.FlowDate.After(time.Now()) {
		return ErrFutureFlowDate
	}

	return nil
}

// Build constructs the expense record
func (h *OutcomeHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("expense entry built", "type", rec.Type, "portfolio_id", cmd.PortfolioID)
	return rec, nil
}
