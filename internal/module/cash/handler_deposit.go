package cash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/internal/platform/source"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// SourceResolver resolves funding-source names, creating them on
// first use
type SourceResolver interface {
	GetOrCreate(ctx context.Context, portfolioID uuid.UUID, name string) (*source.FundingSource, error)
}

// DepositHandler builds records for money entering a portfolio
type DepositHandler struct {
	cashflow.BaseHandler
	sources SourceResolver
	logger  *logger.Logger
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(sources SourceResolver, log *logger.Logger) *DepositHandler {
	return &DepositHandler{
		BaseHandler: cashflow.NewBaseHandler(cashflow.TypeDeposit),
		sources:     sources,
		logger:      log.WithField("component", "cash"),
	}
}

// Validate checks the deposit command
func (h *DepositHandler) Validate(ctx context.Context, cmd cashflow.CreateCommand) error {
	if err := h.ValidateCommon(cmd); err != nil {
		return err
	}

	if cmd.FlowDate.After(time.Now()) {
		return ErrFutureFlowDate
	}

	return nil
}

// Build constructs the deposit record
func (h *DepositHandler) Build(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error) {
	rec := h.NewRecord(cmd)

	if cmd.FundingSource != "" {
		src, err := h.sources.GetOrCreate(ctx, cmd.PortfolioID, cmd.FundingSource)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve funding source: %w", err)
		}
		rec.FundingSource = src.Name
	}

	h.logger.Debug("deposit built", "portfolio_id", cmd.PortfolioID, "amount", cmd.Amount)
	return rec, nil
}
