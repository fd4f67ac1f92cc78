package transfer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/internal/platform/source"
)

// TransferCommand describes a movement of cash between two funding
// sources within one portfolio
type TransferCommand struct {
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	FromSource  string          `json:"from_source"`
	ToSource    string          `json:"to_source"`
	Amount      decimal.Decimal `json:"amount"`
	FlowDate    time.Time       `json:"flow_date"`
	Description string          `json:"description,omitempty"`
	Currency    string          `json:"currency,omitempty"`
}

// Normalize trims the source names in place
func (c *TransferCommand) Normalize() {
	c.FromSource = source.Normalize(c.FromSource)
	c.ToSource = source.Normalize(c.ToSource)
}

// Validate checks the transfer-specific rules. Per-leg rules are
// enforced again by the deposit and withdrawal handlers when the legs
// are recorded.
func (c *TransferCommand) Validate() error {
	if c.PortfolioID == uuid.Nil {
		return cashflow.ErrInvalidPortfolioID
	}

	if c.FromSource == "" || c.ToSource == "" {
		return cashflow.ErrMissingSource
	}

	if strings.EqualFold(c.FromSource, c.ToSource) {
		return cashflow.ErrSameSourceTransfer
	}

	if c.Amount.Sign() <= 0 {
		return cashflow.ErrInvalidAmount
	}

	if c.FlowDate.IsZero() {
		return cashflow.ErrMissingFlowDate
	}

	return nil
}

// Transfer is the recorded pair of legs for a completed transfer
type Transfer struct {
	Reference string           `json:"reference"`
	OutLeg    *cashflow.Record `json:"out_leg"`
	InLeg     *cashflow.Record `json:"in_leg"`
}
