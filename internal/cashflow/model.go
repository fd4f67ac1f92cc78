package cashflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the category of a cash-flow record
type Type string

const (
	TypeDeposit           Type = "DEPOSIT"
	TypeWithdrawal        Type = "WITHDRAWAL"
	TypeDividend          Type = "DIVIDEND"
	TypeInterest          Type = "INTEREST"
	TypeFee               Type = "FEE"
	TypeTax               Type = "TAX"
	TypeAdjustment        Type = "ADJUSTMENT"
	TypeBuyTrade          Type = "BUY_TRADE"
	TypeSellTrade         Type = "SELL_TRADE"
	TypeDepositSettlement Type = "DEPOSIT_SETTLEMENT"
	TypeDepositCreation   Type = "DEPOSIT_CREATION"
	TypeTradeSettlement   Type = "TRADE_SETTLEMENT"
)

// TypeAll is the filter sentinel meaning "no type restriction".
// It is not a record type and never passes IsValid.
const TypeAll Type = "ALL"

// Direction is the sign a type applies to net cash position
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// directions is the single source of truth for inflow/outflow classification.
// Every consumer (summaries, filtered totals, display signs) must go through
// Type.Direction; reported totals change if this table changes.
var directions = map[Type]Direction{
	TypeDeposit:           DirectionInflow,
	TypeDividend:          DirectionInflow,
	TypeInterest:          DirectionInflow,
	TypeSellTrade:         DirectionInflow,
	TypeDepositSettlement: DirectionInflow,
	TypeWithdrawal:        DirectionOutflow,
	TypeBuyTrade:          DirectionOutflow,
	TypeDepositCreation:   DirectionOutflow,
	TypeFee:               DirectionOutflow,
	TypeTax:               DirectionOutflow,
	TypeAdjustment:        DirectionOutflow,
	TypeTradeSettlement:   DirectionOutflow,
}

// IsValid checks if the type is a known record type
func (t Type) IsValid() bool {
	_, ok := directions[t]
	return ok
}

// Direction returns the directional classification of the type
func (t Type) Direction() Direction {
	return directions[t]
}

// IsInflow reports whether the type adds to net cash position
func (t Type) IsInflow() bool {
	return directions[t] == DirectionInflow
}

// Label returns a human-readable label for the type
func (t Type) Label() string {
	switch t {
	case TypeDeposit:
		return "Deposit"
	case TypeWithdrawal:
		return "Withdrawal"
	case TypeDividend:
		return "Dividend"
	case TypeInterest:
		return "Interest"
	case TypeFee:
		return "Fee"
	case TypeTax:
		return "Tax"
	case TypeAdjustment:
		return "Adjustment"
	case TypeBuyTrade:
		return "Buy Trade"
	case TypeSellTrade:
		return "Sell Trade"
	case TypeDepositSettlement:
		return "Deposit Settlement"
	case TypeDepositCreation:
		return "Deposit Creation"
	case TypeTradeSettlement:
		return "Trade Settlement"
	default:
		return "Unknown"
	}
}

// AllTypes returns every known record type
func AllTypes() []Type {
	return []Type{
		TypeDeposit,
		TypeWithdrawal,
		TypeDividend,
		TypeInterest,
		TypeFee,
		TypeTax,
		TypeAdjustment,
		TypeBuyTrade,
		TypeSellTrade,
		TypeDepositSettlement,
		TypeDepositCreation,
		TypeTradeSettlement,
	}
}

// Status represents the lifecycle status of a cash-flow record
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Record represents a single cash-flow movement in a portfolio.
// Amount is always a non-negative magnitude; the sign comes from the
// type's direction.
type Record struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	PortfolioID   uuid.UUID       `json:"portfolio_id" db:"portfolio_id"`
	Type          Type            `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Status        Status          `json:"status" db:"status"`
	FlowDate      time.Time       `json:"flow_date" db:"flow_date"`
	Description   string          `json:"description,omitempty" db:"description"`
	Reference     string          `json:"reference,omitempty" db:"reference"`
	FundingSource string          `json:"funding_source,omitempty" db:"funding_source"`
	Currency      string          `json:"currency,omitempty" db:"currency"`
	MaturesOn     *time.Time      `json:"matures_on,omitempty" db:"matures_on"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Signed returns the amount with the direction's sign applied
func (r *Record) Signed() decimal.Decimal {
	if r.Type.IsInflow() {
		return r.Amount
	}
	return r.Amount.Neg()
}

// Editable reports whether the record may be modified.
// Cancelled records can be viewed and deleted, never edited.
func (r *Record) Editable() bool {
	return r.Status != StatusCancelled
}

// Validate validates record fields
func (r *Record) Validate() error {
	if r.ID == uuid.Nil {
		return ErrInvalidRecordID
	}

	if r.PortfolioID == uuid.Nil {
		return ErrInvalidPortfolioID
	}

	if !r.Type.IsValid() {
		return ErrInvalidType
	}

	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}

	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if r.FlowDate.IsZero() {
		return ErrMissingFlowDate
	}

	return nil
}
