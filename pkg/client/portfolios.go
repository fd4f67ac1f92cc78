package client

import (
	"context"
	"net/http"
)

// CreatePortfolioInput names a new portfolio. BaseCurrency defaults to
// USD server-side when empty.
type CreatePortfolioInput struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency,omitempty"`
	Description  string `json:"description,omitempty"`
}

// CreatePortfolio creates a portfolio for the authenticated user
func (c *Client) CreatePortfolio(ctx context.Context, in CreatePortfolioInput) (*Portfolio, error) {
	var resp Portfolio
	if err := c.do(ctx, http.MethodPost, "/portfolios", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPortfolios lists the authenticated user's portfolios
func (c *Client) ListPortfolios(ctx context.Context) ([]Portfolio, error) {
	var resp struct {
		Portfolios []Portfolio `json:"portfolios"`
	}
	if err := c.do(ctx, http.MethodGet, "/portfolios", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Portfolios, nil
}

// GetPortfolio fetches a single portfolio
func (c *Client) GetPortfolio(ctx context.Context, portfolioID string) (*Portfolio, error) {
	var resp Portfolio
	if err := c.do(ctx, http.MethodGet, "/portfolios/"+portfolioID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeletePortfolio deletes a portfolio and all of its cash flows
func (c *Client) DeletePortfolio(ctx context.Context, portfolioID string) error {
	return c.do(ctx, http.MethodDelete, "/portfolios/"+portfolioID, nil, nil, nil)
}

// ListSources lists the funding sources used by a portfolio
func (c *Client) ListSources(ctx context.Context, portfolioID string) ([]FundingSource, error) {
	var resp struct {
		Sources []FundingSource `json:"sources"`
	}
	if err := c.do(ctx, http.MethodGet, "/portfolios/"+portfolioID+"/sources", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}
