package config

import "errors"

// Errors returned by Load and Validate. Validation failures wrap
// ErrInvalidConfig; an unknown store also wraps ErrUnknownStore.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrUnknownStore  = errors.New("unknown store")
)
