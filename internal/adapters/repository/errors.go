package repository

import (
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/atlas/pkg/metrics"
)

// Sentinel kinds for metric store errors.
var (
	ErrUnavailable   = errors.New("metric store unavailable")
	ErrInvalidYear   = errors.New("invalid reporting year")
	ErrUnknownDriver = errors.New("unknown metric store driver")
)

// QueryError is a failed read against the metric store. It matches
// ErrUnavailable and unwraps to the driver error.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string { return e.Query + ": " + e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }

// Is makes every query failure an ErrUnavailable.
func (e *QueryError) Is(target error) bool { return target == ErrUnavailable }

// queryFailed wraps a driver error with the query name and a stack.
func queryFailed(err error, query, msg string) error {
	if err == nil {
		return nil
	}
	return eris.Wrap(&QueryError{Query: query, Err: err}, msg)
}

// observe records the latency of one store query. Use with defer.
func observe(query string, start time.Time, err *error) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordStoreQuery(query, ms, err != nil && *err != nil)
}
