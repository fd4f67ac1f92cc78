package source

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxNameLength bounds funding-source names so they stay usable as
// display labels.
const MaxNameLength = 64

// FundingSource is a named origin or destination of cash, such as
// "Bank Account" or "Brokerage". Sources are tracked per portfolio and
// created on first use.
type FundingSource struct {
	ID          uuid.UUID `json:"id" db:"id"`
	PortfolioID uuid.UUID `json:"portfolio_id" db:"portfolio_id"`
	Name        string    `json:"name" db:"name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Normalize trims surrounding whitespace from the name
func Normalize(name string) string {
	return strings.TrimSpace(name)
}

// Validate validates the funding source fields
func (f *FundingSource) Validate() error {
	if f.PortfolioID == uuid.Nil {
		return ErrInvalidPortfolioID
	}

	if f.Name == "" {
		return ErrMissingSourceName
	}

	if len(f.Name) > MaxNameLength {
		return ErrSourceNameTooLong
	}

	return nil
}
