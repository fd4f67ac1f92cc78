package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

const sweepTimeout = 2 * time.Minute

// FlowCreator records new cash flows through the handler registry
type FlowCreator interface {
	Create(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error)
}

// MaturedLister finds matured term deposits without a settlement
type MaturedLister interface {
	ListMaturedUnsettled(ctx context.Context, asOf time.Time) ([]*cashflow.Record, error)
}

// Sweeper settles matured term deposits. It runs on a schedule, finds
// COMPLETED deposit creations whose maturity has passed without a
// matching settlement record, and creates the payout for each.
//
// A sweep is idempotent: settled deposits no longer match the matured
// query, so re-running after a partial failure only picks up the
// remainder.
type Sweeper struct {
	flows  FlowCreator
	repo   MaturedLister
	logger *logger.Logger
	now    func() time.Time
}

// NewSweeper creates a new settlement sweeper
func NewSweeper(flows FlowCreator, repo MaturedLister, log *logger.Logger) *Sweeper {
	return &Sweeper{
		flows:  flows,
		repo:   repo,
		logger: log.WithField("component", "settlement"),
		now:    time.Now,
	}
}

// Name returns the job name for scheduling
func (s *Sweeper) Name() string {
	return "deposit-settlement-sweeper"
}

// Run performs one sweep
func (s *Sweeper) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	asOf := s.now()
	matured, err := s.repo.ListMaturedUnsettled(ctx, asOf)
	if err != nil {
		return fmt.Errorf("failed to list matured deposits: %w", err)
	}

	if len(matured) == 0 {
		return nil
	}

	s.logger.Info("settling matured deposits", "count", len(matured))

	var failed int
	for _, dep := range matured {
		if err := s.settle(ctx, dep); err != nil {
			failed++
			s.logger.WithError(err).Error("failed to settle deposit",
				"record_id", dep.ID,
				"reference", dep.Reference,
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("settled %d of %d matured deposits", len(matured)-failed, len(matured))
	}

	return nil
}

func (s *Sweeper) settle(ctx context.Context, dep *cashflow.Record) error {
	// The payout lands on the maturity date, not the sweep date
	flowDate := asTime(dep.MaturesOn, s.now())

	_, err := s.flows.Create(ctx, cashflow.CreateCommand{
		PortfolioID:   dep.PortfolioID,
		Type:          cashflow.TypeDepositSettlement,
		Amount:        dep.Amount,
		FlowDate:      flowDate,
		Status:        cashflow.StatusCompleted,
		Description:   "Term deposit matured",
		Reference:     dep.Reference,
		FundingSource: dep.FundingSource,
		Currency:      dep.Currency,
	})
	return err
}

func asTime(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}
