package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// StatementQuery selects and pages the records of a statement request.
// Zero values mean no restriction; Grouped defaults to true server-side
// when unset, so it is sent explicitly.
type StatementQuery struct {
	Types     []string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Page      int
	Limit     int
	Grouped   bool
}

// SummaryQuery selects the records a summary covers
type SummaryQuery struct {
	Types     []string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// CreateCashFlowInput is the payload for recording a cash flow
type CreateCashFlowInput struct {
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	FlowDate      string `json:"flow_date"`
	Status        string `json:"status,omitempty"`
	Description   string `json:"description,omitempty"`
	Reference     string `json:"reference,omitempty"`
	FundingSource string `json:"funding_source,omitempty"`
	Currency      string `json:"currency,omitempty"`
	MaturesOn     string `json:"matures_on,omitempty"`
}

// UpdateCashFlowInput is a partial update; nil fields keep their
// stored values
type UpdateCashFlowInput struct {
	Amount        *string `json:"amount,omitempty"`
	Status        *string `json:"status,omitempty"`
	FlowDate      *string `json:"flow_date,omitempty"`
	Description   *string `json:"description,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	FundingSource *string `json:"funding_source,omitempty"`
	Currency      *string `json:"currency,omitempty"`
}

// TransferInput moves money between two funding sources
type TransferInput struct {
	FromSource  string `json:"from_source"`
	ToSource    string `json:"to_source"`
	Amount      string `json:"amount"`
	FlowDate    string `json:"flow_date"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// Statement fetches one statement page for a portfolio
func (c *Client) Statement(ctx context.Context, portfolioID string, q StatementQuery) (*Statement, error) {
	query := filterValues(q.Types, q.StartDate, q.EndDate)
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	query.Set("grouped", strconv.FormatBool(q.Grouped))

	var resp Statement
	if err := c.do(ctx, http.MethodGet, "/portfolios/"+portfolioID+"/cashflows", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Summary fetches aggregate totals over the filtered record set
func (c *Client) Summary(ctx context.Context, portfolioID string, q SummaryQuery) (*Summary, error) {
	query := filterValues(q.Types, q.StartDate, q.EndDate)

	var resp Summary
	if err := c.do(ctx, http.MethodGet, "/portfolios/"+portfolioID+"/cashflows/summary", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCashFlow fetches a single record
func (c *Client) GetCashFlow(ctx context.Context, portfolioID, id string) (*CashFlow, error) {
	var resp CashFlow
	if err := c.do(ctx, http.MethodGet, "/portfolios/"+portfolioID+"/cashflows/"+id, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCashFlow records a new cash flow
func (c *Client) CreateCashFlow(ctx context.Context, portfolioID string, in CreateCashFlowInput) (*CashFlow, error) {
	var resp CashFlow
	if err := c.do(ctx, http.MethodPost, "/portfolios/"+portfolioID+"/cashflows", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCashFlow applies a partial update to a record
func (c *Client) UpdateCashFlow(ctx context.Context, portfolioID, id string, in UpdateCashFlowInput) (*CashFlow, error) {
	var resp CashFlow
	if err := c.do(ctx, http.MethodPut, "/portfolios/"+portfolioID+"/cashflows/"+id, nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteCashFlow deletes a record
func (c *Client) DeleteCashFlow(ctx context.Context, portfolioID, id string) error {
	return c.do(ctx, http.MethodDelete, "/portfolios/"+portfolioID+"/cashflows/"+id, nil, nil, nil)
}

// Transfer records a linked withdrawal and deposit between two funding
// sources
func (c *Client) Transfer(ctx context.Context, portfolioID string, in TransferInput) (*TransferResult, error) {
	var resp TransferResult
	if err := c.do(ctx, http.MethodPost, "/portfolios/"+portfolioID+"/transfers", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func filterValues(types []string, startDate, endDate string) url.Values {
	query := url.Values{}
	if len(types) > 0 {
		query.Set("types", strings.Join(types, ","))
	}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}
	return query
}
