package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

// FlowService records linked cash flows atomically
type FlowService interface {
	CreateLinked(ctx context.Context, cmds []cashflow.CreateCommand) ([]*cashflow.Record, error)
}

// Service records transfers between funding sources. A transfer is a
// withdrawal from one source and a deposit to another, committed as a
// unit and linked by a shared reference.
type Service struct {
	flows  FlowService
	logger *logger.Logger
}

// NewService creates a new transfer service
func NewService(flows FlowService, log *logger.Logger) *Service {
	return &Service{
		flows:  flows,
		logger: log.WithField("component", "transfer"),
	}
}

// Transfer records both legs of a funding-source transfer
func (s *Service) Transfer(ctx context.Context, cmd TransferCommand) (*Transfer, error) {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	reference := "TRF-" + uuid.NewString()

	description := cmd.Description
	if description == "" {
		description = fmt.Sprintf("Transfer from %s to %s", cmd.FromSource, cmd.ToSource)
	}

	legs := []cashflow.CreateCommand{
		{
			PortfolioID:   cmd.PortfolioID,
			Type:          cashflow.TypeWithdrawal,
			Amount:        cmd.Amount,
			FlowDate:      cmd.FlowDate,
			Description:   description,
			Reference:     reference,
			FundingSource: cmd.FromSource,
			Currency:      cmd.Currency,
		},
		{
			PortfolioID:   cmd.PortfolioID,
			Type:          cashflow.TypeDeposit,
			Amount:        cmd.Amount,
			FlowDate:      cmd.FlowDate,
			Description:   description,
			Reference:     reference,
			FundingSource: cmd.ToSource,
			Currency:      cmd.Currency,
		},
	}

	records, err := s.flows.CreateLinked(ctx, legs)
	if err != nil {
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	s.logger.Info("transfer recorded",
		"portfolio_id", cmd.PortfolioID,
		"reference", reference,
		"from", cmd.FromSource,
		"to", cmd.ToSource,
	)

	return &Transfer{
		Reference: reference,
		OutLeg:    records[0],
		InLeg:     records[1],
	}, nil
}
