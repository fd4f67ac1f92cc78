package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// WithdrawalHandler builds records for money leaving a portfolio
type WithdrawalHandler struct {
	cashflow.BaseHandler
	sources SourceResolver
	logger  *logger.Logger
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(sources SourceResolver, log *logger.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeWithdrawal),
		sources:     sources,
		logger:      log.WithField("component", "cash"),
	}
}

// Validate checks the withdrawal command
func (h *WithdrawalHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
	if err := h.ValidateCommon(cmd); err != nil {
		return err
	}

	if cmd.FlowDate.After(time.Now()) {
		return ErrFutureFlowDate
	}

	return nil
}

// Build constructs the withdrawal record
func (h *WithdrawalHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)

	if cmd.FundingSource != "" {
		src, err := h.sources.GetOrCreate(ctx, cmd.PortfolioID, cmd.FundingSource)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve funding source: %w", err)
		}
		rec.FundingSource = src.Name
	}

	h.logger.Debug("withdrawal built", "portfolio_id", cmd.PortfolioID, "amount", cmd.Amount)
	return rec, nil
}
