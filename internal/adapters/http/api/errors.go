package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/atlas/internal/adapters/repository"
	"github.com/okian/atlas/internal/domain/dashboard"
	"github.com/okian/atlas/internal/domain/viewmode"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limited")
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeNoData           = "no_data"
	codeNotLoaded        = "not_loaded"
	codeRateLimited      = "rate_limited"
	codeStoreUnavailable = "store_unavailable"
	codeTimeout          = "timeout"
	codeInternal         = "internal_error"
)

// writeFailure maps a service error onto a status and code. Store failures
// are reported without the driver message.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidYear):
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
	case errors.Is(err, dashboard.ErrNoData):
		writeError(w, http.StatusNotFound, codeNoData, err)
	case errors.Is(err, dashboard.ErrNotFound), errors.Is(err, viewmode.ErrUnknownViewMode):
		writeError(w, http.StatusNotFound, codeNotFound, err)
	case errors.Is(err, dashboard.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, codeNotLoaded, err)
	case errors.Is(err, context.DeadlineExceeded):
		// before ErrUnavailable: a timed-out query is also a QueryError
		writeError(w, http.StatusGatewayTimeout, codeTimeout, nil)
	case errors.Is(err, repository.ErrUnavailable):
		writeError(w, http.StatusBadGateway, codeStoreUnavailable, repository.ErrUnavailable)
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, nil)
	}
}
