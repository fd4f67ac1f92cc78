package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cashfolio/cashfolio/internal/platform/portfolio"
	"github.com/cashfolio/cashfolio/internal/platform/source"
	apperrors "github.com/cashfolio/cashfolio/internal/shared/errors"
	"github.com/cashfolio/cashfolio/internal/transport/httpapi/middleware"
)

// PortfolioServiceInterface defines the interface for portfolio operations
type PortfolioServiceInterface interface {
	Create(ctx context.Context, p *portfolio.Portfolio) (*portfolio.Portfolio, error)
	List(ctx context.Context, userID uuid.UUID) ([]*portfolio.Portfolio, error)
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*portfolio.Portfolio, error)
	Update(ctx context.Context, p *portfolio.Portfolio, userID uuid.UUID) (*portfolio.Portfolio, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

// SourceServiceInterface defines the interface for funding-source reads
type SourceServiceInterface interface {
	List(ctx context.Context, portfolioID uuid.UUID) ([]*source.FundingSource, error)
}

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService PortfolioServiceInterface
	sourceService    SourceServiceInterface
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolioService PortfolioServiceInterface, sourceService SourceServiceInterface) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		sourceService:    sourceService,
	}
}

// CreatePortfolioRequest represents the portfolio creation request
type CreatePortfolioRequest struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	Description  string `json:"description"`
}

// UpdatePortfolioRequest represents the portfolio update request
type UpdatePortfolioRequest struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	Description  string `json:"description"`
}

// PortfolioResponse represents a portfolio response
type PortfolioResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// PortfoliosListResponse represents the response for listing portfolios
type PortfoliosListResponse struct {
	Portfolios []PortfolioResponse `json:"portfolios"`
}

// FundingSourceResponse represents a funding source response
type FundingSourceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FundingSourcesListResponse represents the response for listing funding sources
type FundingSourcesListResponse struct {
	Sources []FundingSourceResponse `json:"sources"`
}

// CreatePortfolio handles POST /portfolios
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &portfolio.Portfolio{
		UserID:       userID,
		Name:         req.Name,
		BaseCurrency: req.BaseCurrency,
		Description:  req.Description,
	}

	created, err := h.portfolioService.Create(r.Context(), p)
	if err != nil {
		if errors.Is(err, portfolio.ErrDuplicatePortfolioName) {
			respondWithError(w, http.StatusConflict, "portfolio name already exists")
			return
		}
		if errors.Is(err, portfolio.ErrMissingPortfolioName) {
			respondWithError(w, http.StatusBadRequest, "portfolio name is required")
			return
		}
		if errors.Is(err, portfolio.ErrPortfolioNameTooLong) {
			respondWithError(w, http.StatusBadRequest, "portfolio name exceeds 100 characters")
			return
		}
		if errors.Is(err, portfolio.ErrInvalidCurrency) {
			respondWithError(w, http.StatusBadRequest, "invalid or unsupported currency code")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to create portfolio")
		return
	}

	respondWithJSON(w, http.StatusCreated, toPortfolioResponse(created))
}

// GetPortfolios handles GET /portfolios
func (h *PortfolioHandler) GetPortfolios(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	portfolios, err := h.portfolioService.List(r.Context(), userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch portfolios")
		return
	}

	responses := make([]PortfolioResponse, 0, len(portfolios))
	for _, p := range portfolios {
		responses = append(responses, toPortfolioResponse(p))
	}

	respondWithJSON(w, http.StatusOK, PortfoliosListResponse{Portfolios: responses})
}

// GetPortfolio handles GET /portfolios/{id}
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	portfolioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid portfolio ID")
		return
	}

	p, err := h.portfolioService.GetByID(r.Context(), portfolioID, userID)
	if err != nil {
		respondPortfolioError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toPortfolioResponse(p))
}

// UpdatePortfolio handles PUT /portfolios/{id}
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	portfolioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid portfolio ID")
		return
	}

	var req UpdatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &portfolio.Portfolio{
		ID:           portfolioID,
		Name:         req.Name,
		BaseCurrency: req.BaseCurrency,
		Description:  req.Description,
	}

	updated, err := h.portfolioService.Update(r.Context(), p, userID)
	if err != nil {
		if errors.Is(err, portfolio.ErrDuplicatePortfolioName) {
			respondWithError(w, http.StatusConflict, "portfolio name already exists")
			return
		}
		if errors.Is(err, portfolio.ErrInvalidCurrency) {
			respondWithError(w, http.StatusBadRequest, "invalid or unsupported currency code")
			return
		}
		respondPortfolioError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toPortfolioResponse(updated))
}

// DeletePortfolio handles DELETE /portfolios/{id}
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	portfolioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid portfolio ID")
		return
	}

	if err := h.portfolioService.Delete(r.Context(), portfolioID, userID); err != nil {
		respondPortfolioError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetFundingSources handles GET /portfolios/{id}/sources
func (h *PortfolioHandler) GetFundingSources(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	portfolioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid portfolio ID")
		return
	}

	// Ownership check before exposing portfolio data
	if _, err := h.portfolioService.GetByID(r.Context(), portfolioID, userID); err != nil {
		respondPortfolioError(w, err)
		return
	}

	sources, err := h.sourceService.List(r.Context(), portfolioID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to fetch funding sources")
		return
	}

	responses := make([]FundingSourceResponse, 0, len(sources))
	for _, src := range sources {
		responses = append(responses, FundingSourceResponse{
			ID:   src.ID.String(),
			Name: src.Name,
		})
	}

	respondWithJSON(w, http.StatusOK, FundingSourcesListResponse{Sources: responses})
}

// respondPortfolioError maps common portfolio lookup errors
func respondPortfolioError(w http.ResponseWriter, err error) {
	if errors.Is(err, portfolio.ErrPortfolioNotFound) {
		respondWithAppError(w, apperrors.NotFound("portfolio"))
		return
	}
	if errors.Is(err, portfolio.ErrUnauthorizedAccess) {
		respondWithAppError(w, apperrors.Forbidden("access denied"))
		return
	}
	respondWithAppError(w, apperrors.Internal("failed to fetch portfolio", err))
}

func toPortfolioResponse(p *portfolio.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:           p.ID.String(),
		UserID:       p.UserID.String(),
		Name:         p.Name,
		BaseCurrency: p.BaseCurrency,
		Description:  p.Description,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}
