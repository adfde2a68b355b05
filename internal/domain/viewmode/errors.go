package viewmode

import "errors"

var (
	// ErrUnknownViewMode is returned when a mode name does not parse.
	ErrUnknownViewMode = errors.New("unknown view mode")
	// ErrInvalidWeights is returned by Weights.Validate.
	ErrInvalidWeights = errors.New("invalid view mode weights")
)
