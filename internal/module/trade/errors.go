package trade

import "errors"

var (
	ErrMissingReference = errors.New("order reference is required for trade records")
	ErrFutureFlowDate   = errors.New("flow date cannot be in the future")
)
