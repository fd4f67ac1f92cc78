package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// CreationHandler builds records for opening a term deposit: cash
// leaves the free balance into a product that pays back at maturity.
// Every creation gets a reference so its settlement can be matched
// back to it.
type CreationHandler struct {
	cashflow.BaseHandler
	logger *logger.Logger
}

// NewCreationHandler creates a new deposit-creation handler
func NewCreationHandler(log *logger.Logger) *CreationHandler {
	return &CreationHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeDepositCreation),
		logger:      log.WithField("component", "settlement"),
	}
}

// Validate checks the deposit-creation command
func (h *CreationHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
	if err := h.ValidateCommon(cmd); err != nil {
		return err
	}

	if cmd.FlowDate.After(time.Now()) {
		return ErrFutureFlowDate
	}

	if cmd.MaturesOn == nil {
		return ErrMissingMaturity
	}

	if !cmd.MaturesOn.After(cmd.FlowDate) {
		return ErrMaturityBeforeOpen
	}

	return nil
}

// Build constructs the deposit-creation record
func (h *CreationHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)

	if rec.Reference == "" {
		rec.Reference = "TD-" + uuid.NewString()
	}

	h.logger.Debug("term deposit opened",
		"portfolio_id", cmd.PortfolioID,
		"reference", rec.Reference,
		"matures_on", cmd.MaturesOn,
	)
	return rec, nil
}
