package cashflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCommand carries the caller-supplied fields for a new record.
// Type-specific rules (required maturity, status defaults) live in the
// handler registered for the command's type.
type CreateCommand struct {
	PortfolioID   uuid.UUID       `json:"portfolio_id"`
	Type          Type            `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	FlowDate      time.Time       `json:"flow_date"`
	Status        Status          `json:"status,omitempty"`
	Description   string          `json:"description,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	FundingSource string          `json:"funding_source,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	MaturesOn     *time.Time      `json:"matures_on,omitempty"`
}

// Handler builds records for one cash-flow type.
//
// Each type (deposit, withdrawal, dividend, trade leg, ...) registers
// its own handler, so new flow kinds plug in without modifying the
// core service.
type Handler interface {
	// Type returns the record type this handler serves
	Type() Type

	// Validate checks type-specific command fields
	Validate(ctx context.Context, cmd CreateCommand) error

	// Build constructs the record for the command. The service stamps
	// identity and timestamps afterwards; handlers own everything else,
	// including the status default for their type.
	Build(ctx context.Context, cmd CreateCommand) (*Record, error)
}

// BaseHandler provides common functionality for handlers
type BaseHandler struct {
	handlerType Type
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(handlerType Type) BaseHandler {
	return BaseHandler{
		handlerType: handlerType,
	}
}

// Type returns the record type
func (h *BaseHandler) Type() Type {
	return h.handlerType
}

// NewRecord builds a record pre-filled from the command's common
// fields with status defaulted to COMPLETED
func (h *BaseHandler) NewRecord(cmd CreateCommand) *Record {
	status := cmd.Status
	if status == "" {
		status = StatusCompleted
	}

	return &Record{
		PortfolioID:   cmd.PortfolioID,
		Type:          h.handlerType,
		Amount:        cmd.Amount,
		Status:        status,
		FlowDate:      cmd.FlowDate,
		Description:   cmd.Description,
		Reference:     cmd.Reference,
		FundingSource: cmd.FundingSource,
		Currency:      cmd.Currency,
		MaturesOn:     cmd.MaturesOn,
	}
}

// ValidateCommon checks the command fields shared by every type
func (h *BaseHandler) ValidateCommon(cmd CreateCommand) error {
	if cmd.PortfolioID == uuid.Nil {
		return ErrInvalidPortfolioID
	}

	if cmd.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	if cmd.FlowDate.IsZero() {
		return ErrMissingFlowDate
	}

	if cmd.Status != "" && !cmd.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// Registry manages the handlers for every cash-flow type
type Registry struct {
	handlers map[Type]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new handler registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[Type]Handler),
	}
}

// Register registers a handler for a cash-flow type.
// Returns an error if a handler for this type is already registered.
func (r *Registry) Register(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	handlerType := handler.Type()
	if handlerType == "" {
		return fmt.Errorf("handler type cannot be empty")
	}

	if !handlerType.IsValid() {
		return fmt.Errorf("invalid handler type: %s", handlerType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[handlerType]; exists {
		return fmt.Errorf("handler for type '%s' already registered", handlerType)
	}

	r.handlers[handlerType] = handler
	return nil
}

// Get retrieves the handler for a cash-flow type.
// Returns an error if no handler is registered for this type.
func (r *Registry) Get(t Type) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[t]
	if !exists {
		return nil, fmt.Errorf("no handler registered for cash flow type: %s", t)
	}

	return handler, nil
}

// Has checks if a handler is registered for the given type
func (r *Registry) Has(t Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.handlers[t]
	return exists
}

// Types returns all registered cash-flow types
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}
