package dashboard

import "errors"

var (
	// ErrNotLoaded is the loading state: no snapshot is available yet.
	ErrNotLoaded = errors.New("snapshot not loaded")
	// ErrNotFound is returned for an unknown sector or region id.
	ErrNotFound = errors.New("not found")
	// ErrNoData is returned when an operation needs an aggregate and the
	// sector has no rows for the year.
	ErrNoData = errors.New("no data")
)
