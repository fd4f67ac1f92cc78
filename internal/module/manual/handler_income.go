package manual

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// IncomeHandler builds manually entered income records: dividends and
// interest. Manual entries always carry a description naming the
// holding or account that produced the income.
type IncomeHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewDividendHandler creates the handler for dividend income
func NewDividendHandler(log *logger.Logger) *IncomeHandler {
	return newIncomeHandler(cashflow.TypeDividend, log)
}

// NewInterestHandler creates the handler for interest income
func NewInterestHandler(log *logger.Logger) *IncomeHandler {
	return newIncomeHandler(cashflow.TypeInterest, log)
}

func newIncomeHandler(t cashflow.Type, log *logger.Logger) *IncomeHandler {
	return &IncomeHandler{
		BaseHandler: cashflow.NewBaseHandler(t),
		logger:      log.WithField("component", "manual"),
	}
}

// Validate checks the income command
func (h *IncomeHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
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

// Build constructs the income record
func (h *IncomeHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("income entry built", "type", rec.Type, "portfolio_id", cmd.PortfolioID)
	return rec, nil
}
