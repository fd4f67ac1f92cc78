package cashflow

import "errors"

// Record errors
var (
	ErrInvalidRecordID    = errors.New("invalid record ID")
	ErrInvalidPortfolioID = errors.New("invalid portfolio ID")
	ErrInvalidType        = errors.New("invalid cash flow type")
	ErrInvalidStatus      = errors.New("invalid cash flow status")
	ErrInvalidAmount      = errors.New("invalid amount: must be positive")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrMissingFlowDate    = errors.New("flow date is required")
	ErrRecordNotFound     = errors.New("cash flow record not found")
	ErrRecordCancelled    = errors.New("cancelled records cannot be edited")
)

// Filter errors
var (
	ErrInvalidDate      = errors.New("invalid date: expected YYYY-MM-DD")
	ErrInvalidDateRange = errors.New("end date cannot be before start date")
	ErrInvalidPage      = errors.New("page and limit must be positive")
)

// Transfer errors
var (
	ErrSameSourceTransfer = errors.New("source and destination funding sources cannot be the same")
	ErrMissingSource      = errors.New("funding source is required")
)
