package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/internal/module/adjustment"
	"github.com/cashfolio/cashfolio/internal/module/cash"
	"github.com/cashfolio/cashfolio/internal/module/manual"
	"github.com/cashfolio/cashfolio/internal/module/settlement"
	"github.com/cashfolio/cashfolio/internal/module/statement"
	"github.com/cashfolio/cashfolio/internal/module/trade"
	"github.com/cashfolio/cashfolio/internal/module/transfer"
	"github.com/cashfolio/cashfolio/internal/platform/portfolio"
	apperrors "github.com/cashfolio/cashfolio/internal/shared/errors"
	"github.com/cashfolio/cashfolio/internal/transport/httpapi/middleware"
	"github.com/cashfolio/cashfolio/pkg/money"
)

// dateLayout is the wire format for flow and maturity dates
const dateLayout = "2006-01-02"

// CashFlowServiceInterface defines the cash-flow operations needed by CashFlowHandler
type CashFlowServiceInterface interface {
	Create(ctx context.Context, cmd cashflow.CreateCommand) (*cashflow.Record, error)
	Get(ctx context.Context, portfolioID, id uuid.UUID) (*cashflow.Record, error)
	Update(ctx context.Context, portfolioID, id uuid.UUID, in cashflow.UpdateInput) (*cashflow.Record, error)
	Delete(ctx context.Context, portfolioID, id uuid.UUID) error
	Summary(ctx context.Context, portfolioID uuid.UUID, filter cashflow.Filter) (*cashflow.Summary, error)
}

// StatementServiceInterface defines the statement assembly operations
type StatementServiceInterface interface {
	Build(ctx context.Context, portfolioID uuid.UUID, baseCurrency string, filter cashflow.Filter, page cashflow.Page, groupByDate bool) (*statement.Statement, error)
}

// TransferServiceInterface defines the funding-source transfer operations
type TransferServiceInterface interface {
	Transfer(ctx context.Context, cmd transfer.TransferCommand) (*transfer.Transfer, error)
}

// PortfolioReaderInterface is the portfolio lookup used for ownership
// checks and base-currency resolution
type PortfolioReaderInterface interface {
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*portfolio.Portfolio, error)
}

// CashFlowHandler handles cash-flow HTTP requests
type CashFlowHandler struct {
	flowService      CashFlowServiceInterface
	statementService StatementServiceInterface
	transferService  TransferServiceInterface
	portfolios       PortfolioReaderInterface
}

// NewCashFlowHandler creates a new cash-flow handler
func NewCashFlowHandler(
	flowService CashFlowServiceInterface,
	statementService StatementServiceInterface,
	transferService TransferServiceInterface,
	portfolios PortfolioReaderInterface,
) *CashFlowHandler {
	return &CashFlowHandler{
		flowService:      flowService,
		statementService: statementService,
		transferService:  transferService,
		portfolios:       portfolios,
	}
}

// CreateCashFlowRequest represents the cash-flow creation request
type CreateCashFlowRequest struct {
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	FlowDate      string `json:"flow_date"` // YYYY-MM-DD
	Status        string `json:"status,omitempty"`
	Description   string `json:"description,omitempty"`
	Reference     string `json:"reference,omitempty"`
	FundingSource string `json:"funding_source,omitempty"`
	Currency      string `json:"currency,omitempty"`
	MaturesOn     string `json:"matures_on,omitempty"` // YYYY-MM-DD
}

// UpdateCashFlowRequest represents a partial cash-flow update.
// Absent fields keep their stored values.
type UpdateCashFlowRequest struct {
	Amount        *string `json:"amount,omitempty"`
	Status        *string `json:"status,omitempty"`
	FlowDate      *string `json:"flow_date,omitempty"`
	Description   *string `json:"description,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	FundingSource *string `json:"funding_source,omitempty"`
	Currency      *string `json:"currency,omitempty"`
}

// toUpdateInput parses the string fields of a partial update. The amount
// is validated against the currency being set, or the portfolio base
// currency when the request leaves the currency alone.
func (r UpdateCashFlowRequest) toUpdateInput(baseCurrency string) (cashflow.UpdateInput, error) {
	in := cashflow.UpdateInput{
		Description:   r.Description,
		Reference:     r.Reference,
		FundingSource: r.FundingSource,
		Currency:      r.Currency,
	}

	if r.Amount != nil {
		currency := baseCurrency
		if r.Currency != nil && *r.Currency != "" {
			currency = *r.Currency
		}
		amount, err := money.ParseAmount(*r.Amount, currency)
		if err != nil {
			return cashflow.UpdateInput{}, err
		}
		in.Amount = &amount
	}

	if r.Status != nil {
		status := cashflow.Status(*r.Status)
		in.Status = &status
	}

	if r.FlowDate != nil {
		flowDate, err := parseDate(*r.FlowDate)
		if err != nil {
			return cashflow.UpdateInput{}, err
		}
		in.FlowDate = &flowDate
	}

	return in, nil
}

// CreateTransferRequest represents a funding-source transfer request
type CreateTransferRequest struct {
	FromSource  string `json:"from_source"`
	ToSource    string `json:"to_source"`
	Amount      string `json:"amount"`
	FlowDate    string `json:"flow_date"` // YYYY-MM-DD
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// TransferResponse represents the two legs of a completed transfer
type TransferResponse struct {
	Reference string               `json:"reference"`
	Out       statement.RecordItem `json:"out"`
	In        statement.RecordItem `json:"in"`
}

// SummaryResponse represents aggregate totals for a filtered record set
type SummaryResponse struct {
	TotalInflow  string `json:"total_inflow"`
	TotalOutflow string `json:"total_outflow"`
	Net          string `json:"net"`
	DisplayNet   string `json:"display_net"`
	Count        int    `json:"count"`
}

// createValidationErrors are the domain errors that mean the request
// itself was bad, across every registered flow type
var createValidationErrors = []error{
	cashflow.ErrInvalidPortfolioID,
	cashflow.ErrInvalidType,
	cashflow.ErrInvalidStatus,
	cashflow.ErrInvalidAmount,
	cashflow.ErrMissingFlowDate,
	cash.ErrFutureFlowDate,
	manual.ErrFutureFlowDate,
	manual.ErrMissingDescription,
	trade.ErrFutureFlowDate,
	trade.ErrMissingReference,
	settlement.ErrFutureFlowDate,
	settlement.ErrMissingMaturity,
	settlement.ErrMaturityBeforeOpen,
	settlement.ErrMissingReference,
	adjustment.ErrFutureFlowDate,
	adjustment.ErrMissingDescription,
}

// CreateCashFlow handles POST /portfolios/{id}/cashflows
func (h *CashFlowHandler) CreateCashFlow(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	var req CreateCashFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithAppError(w, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.Type == "" {
		respondWithAppError(w, apperrors.Validation("cash flow type is required"))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = p.BaseCurrency
	}

	amount, err := money.ParseAmount(req.Amount, currency)
	if err != nil {
		respondWithAppError(w, apperrors.Validation(err.Error()))
		return
	}

	flowDate, err := parseDate(req.FlowDate)
	if err != nil {
		respondWithAppError(w, apperrors.Validation("invalid flow_date: expected YYYY-MM-DD"))
		return
	}

	cmd := cashflow.CreateCommand{
		PortfolioID:   p.ID,
		Type:          cashflow.Type(req.Type),
		Amount:        amount,
		FlowDate:      flowDate,
		Status:        cashflow.Status(req.Status),
		Description:   req.Description,
		Reference:     req.Reference,
		FundingSource: req.FundingSource,
		Currency:      req.Currency,
	}

	if req.MaturesOn != "" {
		maturesOn, err := parseDate(req.MaturesOn)
		if err != nil {
			respondWithAppError(w, apperrors.Validation("invalid matures_on: expected YYYY-MM-DD"))
			return
		}
		cmd.MaturesOn = &maturesOn
	}

	rec, err := h.flowService.Create(r.Context(), cmd)
	if err != nil {
		for _, sentinel := range createValidationErrors {
			if errors.Is(err, sentinel) {
				respondWithAppError(w, apperrors.Validation(sentinel.Error()))
				return
			}
		}
		respondWithAppError(w, apperrors.Mutation("failed to create cash flow", err))
		return
	}

	respondWithJSON(w, http.StatusCreated, statement.RenderRecord(rec, p.BaseCurrency))
}

// GetStatement handles GET /portfolios/{id}/cashflows
//
// Query parameters: types (comma-separated, "ALL" for no restriction),
// start_date, end_date (YYYY-MM-DD, inclusive), page, limit, grouped.
func (h *CashFlowHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	filter, ok := parseFilterQuery(w, r)
	if !ok {
		return
	}

	page, ok := parsePageQuery(w, r)
	if !ok {
		return
	}

	grouped := true
	if raw := r.URL.Query().Get("grouped"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithAppError(w, apperrors.Validation("invalid grouped flag"))
			return
		}
		grouped = parsed
	}

	stmt, err := h.statementService.Build(r.Context(), p.ID, p.BaseCurrency, filter, page, grouped)
	if err != nil {
		respondWithAppError(w, apperrors.Fetch("failed to load cash flows", err))
		return
	}

	respondWithJSON(w, http.StatusOK, stmt)
}

// GetSummary handles GET /portfolios/{id}/cashflows/summary
func (h *CashFlowHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	filter, ok := parseFilterQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.flowService.Summary(r.Context(), p.ID, filter)
	if err != nil {
		respondWithAppError(w, apperrors.Fetch("failed to compute summary", err))
		return
	}

	respondWithJSON(w, http.StatusOK, SummaryResponse{
		TotalInflow:  summary.TotalInflow.String(),
		TotalOutflow: summary.TotalOutflow.String(),
		Net:          summary.Net.String(),
		DisplayNet:   money.Format(summary.Net, p.BaseCurrency),
		Count:        summary.Count,
	})
}

// GetCashFlow handles GET /portfolios/{id}/cashflows/{flowID}
func (h *CashFlowHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	flowID, err := uuid.Parse(chi.URLParam(r, "flowID"))
	if err != nil {
		respondWithAppError(w, apperrors.Validation("invalid cash flow ID"))
		return
	}

	rec, err := h.flowService.Get(r.Context(), p.ID, flowID)
	if err != nil {
		if errors.Is(err, cashflow.ErrRecordNotFound) {
			respondWithAppError(w, apperrors.NotFound("cash flow"))
			return
		}
		respondWithAppError(w, apperrors.Fetch("failed to fetch cash flow", err))
		return
	}

	respondWithJSON(w, http.StatusOK, statement.RenderRecord(rec, p.BaseCurrency))
}

// UpdateCashFlow handles PUT /portfolios/{id}/cashflows/{flowID}
func (h *CashFlowHandler) UpdateCashFlow(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	flowID, err := uuid.Parse(chi.URLParam(r, "flowID"))
	if err != nil {
		respondWithAppError(w, apperrors.Validation("invalid cash flow ID"))
		return
	}

	var req UpdateCashFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithAppError(w, apperrors.BadRequest("invalid request body"))
		return
	}

	in, err := req.toUpdateInput(p.BaseCurrency)
	if err != nil {
		respondWithAppError(w, apperrors.Validation(err.Error()))
		return
	}

	rec, err := h.flowService.Update(r.Context(), p.ID, flowID, in)
	if err != nil {
		if errors.Is(err, cashflow.ErrRecordNotFound) {
			respondWithAppError(w, apperrors.NotFound("cash flow"))
			return
		}
		if errors.Is(err, cashflow.ErrRecordCancelled) {
			respondWithAppError(w, apperrors.State("cancelled records cannot be edited"))
			return
		}
		if errors.Is(err, cashflow.ErrInvalidAmount) ||
			errors.Is(err, cashflow.ErrInvalidStatus) ||
			errors.Is(err, cashflow.ErrMissingFlowDate) {
			respondWithAppError(w, apperrors.Validation(err.Error()))
			return
		}
		respondWithAppError(w, apperrors.Mutation("failed to update cash flow", err))
		return
	}

	respondWithJSON(w, http.StatusOK, statement.RenderRecord(rec, p.BaseCurrency))
}

// DeleteCashFlow handles DELETE /portfolios/{id}/cashflows/{flowID}
func (h *CashFlowHandler) DeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	flowID, err := uuid.Parse(chi.URLParam(r, "flowID"))
	if err != nil {
		respondWithAppError(w, apperrors.Validation("invalid cash flow ID"))
		return
	}

	if err := h.flowService.Delete(r.Context(), p.ID, flowID); err != nil {
		if errors.Is(err, cashflow.ErrRecordNotFound) {
			respondWithAppError(w, apperrors.NotFound("cash flow"))
			return
		}
		respondWithAppError(w, apperrors.Mutation("failed to delete cash flow", err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CreateTransfer handles POST /portfolios/{id}/transfers
func (h *CashFlowHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.authorizePortfolio(w, r)
	if !ok {
		return
	}

	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithAppError(w, apperrors.BadRequest("invalid request body"))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = p.BaseCurrency
	}

	amount, err := money.ParseAmount(req.Amount, currency)
	if err != nil {
		respondWithAppError(w, apperrors.Validation(err.Error()))
		return
	}

	flowDate, err := parseDate(req.FlowDate)
	if err != nil {
		respondWithAppError(w, apperrors.Validation("invalid flow_date: expected YYYY-MM-DD"))
		return
	}

	result, err := h.transferService.Transfer(r.Context(), transfer.TransferCommand{
		PortfolioID: p.ID,
		FromSource:  req.FromSource,
		ToSource:    req.ToSource,
		Amount:      amount,
		FlowDate:    flowDate,
		Description: req.Description,
		Currency:    req.Currency,
	})
	if err != nil {
		if errors.Is(err, cashflow.ErrSameSourceTransfer) ||
			errors.Is(err, cashflow.ErrMissingSource) ||
			errors.Is(err, cashflow.ErrInvalidAmount) ||
			errors.Is(err, cashflow.ErrMissingFlowDate) {
			respondWithAppError(w, apperrors.Validation(err.Error()))
			return
		}
		respondWithAppError(w, apperrors.Mutation("failed to transfer between sources", err))
		return
	}

	respondWithJSON(w, http.StatusCreated, TransferResponse{
		Reference: result.Reference,
		Out:       statement.RenderRecord(result.OutLeg, p.BaseCurrency),
		In:        statement.RenderRecord(result.InLeg, p.BaseCurrency),
	})
}

// authorizePortfolio resolves the {id} route param to a portfolio the
// authenticated user owns. Writes the error response itself when the
// check fails.
func (h *CashFlowHandler) authorizePortfolio(w http.ResponseWriter, r *http.Request) (*portfolio.Portfolio, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithAppError(w, apperrors.Unauthorized("unauthorized"))
		return nil, false
	}

	portfolioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithAppError(w, apperrors.Validation("invalid portfolio ID"))
		return nil, false
	}

	p, err := h.portfolios.GetByID(r.Context(), portfolioID, userID)
	if err != nil {
		respondPortfolioError(w, err)
		return nil, false
	}

	return p, true
}

// parseFilterQuery reads the filter query parameters. Writes the error
// response itself when parsing fails.
func parseFilterQuery(w http.ResponseWriter, r *http.Request) (cashflow.Filter, bool) {
	q := r.URL.Query()

	filter, err := cashflow.ParseFilter(q.Get("types"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respondWithAppError(w, apperrors.Validation(err.Error()))
		return cashflow.Filter{}, false
	}

	return filter, true
}

// parsePageQuery reads page and limit query parameters. Writes the
// error response itself when parsing fails.
func parsePageQuery(w http.ResponseWriter, r *http.Request) (cashflow.Page, bool) {
	q := r.URL.Query()
	page := cashflow.Page{Page: 1, Limit: cashflow.DefaultPageLimit}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithAppError(w, apperrors.Validation(cashflow.ErrInvalidPage.Error()))
			return cashflow.Page{}, false
		}
		page.Page = n
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondWithAppError(w, apperrors.Validation(cashflow.ErrInvalidPage.Error()))
			return cashflow.Page{}, false
		}
		page.Limit = n
	}

	return page.Normalize(), true
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}
