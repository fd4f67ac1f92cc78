package statement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
	"github.com/cashfolio/cashfolio/pkg/money"
)

// FlowReader is the slice of the cash-flow service the statement
// assembly reads from.
type FlowReader interface {
	List(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter, page cashflow.Page) ([]*cashflow.Record, cashflow.Pagination, error)
	Summary(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter) (*cashflow.Summary, error)
}

// Service assembles statements: one page of records grouped by day,
// with the page total and the summary over the whole filtered set.
type Service struct {
	flows  FlowReader
	logger *logger.Logger
}

func NewService(flows FlowReader, log *logger.Logger) *Service {
	return &Service{
		flows:  flows,
		logger: log.WithField("component", "statement_service"),
	}
}

// Build fetches one page of cash flows and renders it as a statement.
// baseCurrency is used for records that don't carry their own currency.
//
// The summary covers the full filtered set, not just the current page.
// When it cannot be computed the statement is returned without one
// rather than failing the whole request.
func (s *Service) Build(ctx context.Context, portfolioID uuid.UUID, baseCurrency string, filter cashflow.Filter, page cashflow.Page, groupByDate bool) (*Statement, error) {
	// Fetch the requested page
	records, pagination, err := s.flows.List(ctx, portfolioID, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash flows: %w", err)
	}

	// Group and total the page
	groups := cashflow.GroupByDate(records, groupByDate)
	filteredTotal := cashflow.ComputeFilteredTotal(records)

	stmt := &Statement{
		Groups:        make([]GroupItem, 0, len(groups)),
		FilteredTotal: filteredTotal.String(),
		GroupedByDate: groupByDate,
		Pagination: Pagination{
			Page:       pagination.Page,
			Limit:      pagination.Limit,
			Total:      pagination.Total,
			TotalPages: pagination.TotalPages,
		},
	}
	for _, g := range groups {
		stmt.Groups = append(stmt.Groups, renderGroup(g, baseCurrency))
	}

	// Summarize the full filtered set
	summary, err := s.flows.Summary(ctx, portfolioID, filter)
	if err != nil {
		s.logger.WithError(err).Warn("failed to summarize cash flows",
			"portfolio_id", portfolioID)
		return stmt, nil
	}
	stmt.Summary = &SummaryItem{
		TotalInflow:  summary.TotalInflow.String(),
		TotalOutflow: summary.TotalOutflow.String(),
		Net:          summary.Net.String(),
		DisplayNet:   money.Format(summary.Net, baseCurrency),
		Count:        summary.Count,
	}

	return stmt, nil
}

func renderGroup(g *cashflow.DateGroup, baseCurrency string) GroupItem {
	item := GroupItem{
		Key:             g.Key,
		Label:           g.Label,
		Records:         make([]RecordItem, 0, len(g.Records)),
		Subtotal:        g.Subtotal.String(),
		DisplaySubtotal: money.Format(g.Subtotal, baseCurrency),
		Count:           g.Count,
	}
	for _, rec := range g.Records {
		item.Records = append(item.Records, RenderRecord(rec, baseCurrency))
	}
	return item
}

// RenderRecord renders a single record the way statement listings do.
// Shared with handlers that return individual records so both shapes
// stay identical.
func RenderRecord(rec *cashflow.Record, baseCurrency string) RecordItem {
	currency := rec.Currency
	if currency == "" {
		currency = baseCurrency
	}

	item := RecordItem{
		ID:            rec.ID.String(),
		Type:          string(rec.Type),
		TypeLabel:     rec.Type.Label(),
		Direction:     string(rec.Type.Direction()),
		Amount:        rec.Amount.String(),
		DisplayAmount: money.Format(rec.Signed(), currency),
		Status:        string(rec.Status),
		FlowDate:      rec.FlowDate.UTC().Format("2006-01-02"),
		Description:   rec.Description,
		Reference:     rec.Reference,
		FundingSource: rec.FundingSource,
		Currency:      currency,
	}
	if rec.MaturesOn != nil {
		item.MaturesOn = rec.MaturesOn.UTC().Format("2006-01-02")
	}
	return item
}
