package portfolio

import "errors"

var (
	// Validation errors
	ErrInvalidUserID          = errors.New("invalid user ID")
	ErrInvalidPortfolioID     = errors.New("invalid portfolio ID")
	ErrMissingPortfolioName   = errors.New("portfolio name is required")
	ErrPortfolioNameTooLong   = errors.New("portfolio name exceeds 100 characters")
	ErrInvalidCurrency        = errors.New("invalid or unsupported currency code")
	ErrDuplicatePortfolioName = errors.New("portfolio name already exists for this user")

	// Repository errors
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrUnauthorizedAccess = errors.New("unauthorized portfolio access")
)
