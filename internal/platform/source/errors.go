package source

import "errors"

var (
	ErrInvalidPortfolioID = errors.New("invalid portfolio ID")
	ErrMissingSourceName  = errors.New("funding source name is required")
	ErrSourceNameTooLong  = errors.New("funding source name exceeds 64 characters")
	ErrSourceNotFound     = errors.New("funding source not found")
)
