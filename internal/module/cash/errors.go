package cash

import "errors"

var (
	ErrFutureFlowDate = errors.New("flow date cannot be in the future")
)
