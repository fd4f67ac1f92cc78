package adjustment

import (
	"context"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// Handler builds manual balance-correction records. Adjustments exist
// to reconcile the tracked balance with reality, so every one must
// say what it corrects.
type Handler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewHandler creates a new adjustment handler
func NewHandler(log *logger.Logger) *Handler {
	return &Handler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeAdjustment),
		logger:      log.WithField("component", "adjustment"),
	}
}

// Validate checks the adjustment command
func (h *Handler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
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

// Build constructs the adjustment record
func (h *Handler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)
	h.logger.Debug("adjustment built", "portfolio_id", cmd.PortfolioID)
	return rec, nil
}
