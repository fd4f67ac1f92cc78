package adjustment

import "errors"

var (
	ErrMissingDescription = errors.New("adjustments require a description of the correction")
	ErrFutureFlowDate     = errors.New("flow date cannot be in the future")
)
