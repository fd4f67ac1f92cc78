package settlement

import "errors"

var (
	ErrMissingMaturity    = errors.New("maturity date is required for term deposits")
	ErrMaturityBeforeOpen = errors.New("maturity date must be after the opening date")
	ErrMissingReference   = errors.New("settlement requires the reference of the deposit it settles")
	ErrFutureFlowDate     = errors.New("flow date cannot be in the future")
)
