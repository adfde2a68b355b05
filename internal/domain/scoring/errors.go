package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrUnknownBand    = errors.New("unknown regulatory band")
	ErrInvalidWeights = errors.New("invalid opportunity weights")
)
