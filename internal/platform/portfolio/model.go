package portfolio

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

// DefaultBaseCurrency is assigned when a portfolio is created without
// an explicit base currency.
const DefaultBaseCurrency = "USD"

// Portfolio represents a container for a user's cash-flow records
type Portfolio struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	BaseCurrency string    `json:"base_currency" db:"base_currency"` // ISO 4217 code
	Description  string    `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ValidateCreate validates portfolio fields for creation
func (p *Portfolio) ValidateCreate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidUserID
	}

	if p.Name == "" {
		return ErrMissingPortfolioName
	}

	if len(p.Name) > 100 {
		return ErrPortfolioNameTooLong
	}

	// Normalize and validate the base currency
	if p.BaseCurrency == "" {
		p.BaseCurrency = DefaultBaseCurrency
	}
	p.BaseCurrency = strings.ToUpper(p.BaseCurrency)
	if !IsValidCurrency(p.BaseCurrency) {
		return ErrInvalidCurrency
	}

	return nil
}

// ValidateUpdate validates portfolio fields for updates
func (p *Portfolio) ValidateUpdate() error {
	if p.ID == uuid.Nil {
		return ErrInvalidPortfolioID
	}

	if p.Name == "" {
		return ErrMissingPortfolioName
	}

	if len(p.Name) > 100 {
		return ErrPortfolioNameTooLong
	}

	if p.BaseCurrency != "" {
		p.BaseCurrency = strings.ToUpper(p.BaseCurrency)
		if !IsValidCurrency(p.BaseCurrency) {
			return ErrInvalidCurrency
		}
	}

	return nil
}

// IsValidCurrency checks the code against the ISO 4217 currency table
func IsValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
