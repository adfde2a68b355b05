package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/atlas/internal/domain/dashboard"
)

// RankingDependencies defines the interface for cross-sector rankings.
type RankingDependencies interface {
	Heatmap(ctx context.Context, year int) ([]dashboard.HeatmapRow, error)
	Quadrant(ctx context.Context, year int) ([]dashboard.QuadrantPoint, error)
	Risks(ctx context.Context, year int) ([]dashboard.RiskRow, error)
	Compare(ctx context.Context, a, b string, year int) (dashboard.Comparison, error)
}

// RankingHandler handles heatmap, quadrant, risk and comparison requests.
type RankingHandler struct {
	deps RankingDependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// HandleHeatmap handles GET /v1/heatmap?year=.
func (h *RankingHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, h.deps.Heatmap)
}

// HandleQuadrant handles GET /v1/quadrant?year=.
func (h *RankingHandler) HandleQuadrant(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, h.deps.Quadrant)
}

// HandleRisks handles GET /v1/risks?year=.
func (h *RankingHandler) HandleRisks(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, h.deps.Risks)
}

// HandleCompare handles GET /v1/compare?a=&b=&year=.
func (h *RankingHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("a") == "" || q.Get("b") == "" {
		writeFailure(w, fmt.Errorf("%w: a and b are required", ErrBadRequest))
		return
	}
	a, err := sectorID(q.Get("a"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	b, err := sectorID(q.Get("b"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	year, err := yearParam(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	cmp, err := h.deps.Compare(r.Context(), a, b, year)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// serveYear answers a list endpoint that only takes ?year=. Empty results
// encode as [] rather than null.
func serveYear[T any](w http.ResponseWriter, r *http.Request, fetch func(context.Context, int) ([]T, error)) {
	year, err := yearParam(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	out, err := fetch(r.Context(), year)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if out == nil {
		out = []T{}
	}
	writeJSON(w, http.StatusOK, out)
}
