package manual

import "errors"

var (
	ErrMissingDescription = errors.New("description is required for manual entries")
	ErrFutureFlowDate     = errors.New("flow date cannot be in the future")
)
