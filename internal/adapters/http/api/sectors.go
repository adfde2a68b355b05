package api

import (
	"context"
	"net/http"

	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/dashboard"
)

// SectorDependencies defines the interface for sector card operations.
type SectorDependencies interface {
	Sectors(ctx context.Context, year int) ([]dashboard.Card, error)
	Sector(ctx context.Context, id string, year int) (dashboard.Card, error)
	RegionalBreakdown(ctx context.Context, id string, year int, f aggregate.RegionFilter) ([]aggregate.RegionAggregate, error)
}

// SectorHandler handles sector requests.
type SectorHandler struct {
	deps SectorDependencies
}

// NewSectorHandler creates a new sector handler.
func NewSectorHandler(deps SectorDependencies) *SectorHandler {
	return &SectorHandler{deps: deps}
}

// HandleList handles GET /v1/sectors?year=.
func (h *SectorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	cards, err := h.deps.Sectors(r.Context(), year)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentCards(cards))
}

// HandleGet handles GET /v1/sectors/{id}?year=.
func (h *SectorHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := sectorID(r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	year, err := yearParam(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	card, err := h.deps.Sector(r.Context(), id, year)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentCard(card))
}

// HandleRegions handles GET /v1/sectors/{id}/regions?year=&income=&regulatory=.
func (h *SectorHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	id, err := sectorID(r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	year, err := yearParam(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	f, err := regionFilter(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rows, err := h.deps.RegionalBreakdown(r.Context(), id, year, f)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if rows == nil {
		rows = []aggregate.RegionAggregate{}
	}
	writeJSON(w, http.StatusOK, rows)
}
