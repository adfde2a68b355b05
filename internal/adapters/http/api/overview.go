package api

import (
	"context"
	"net/http"

	"github.com/okian/atlas/internal/domain/aggregate"
	"github.com/okian/atlas/internal/domain/dashboard"
)

// OverviewDependencies defines the interface for cross-sector overviews.
type OverviewDependencies interface {
	Regions(ctx context.Context, year int, f aggregate.RegionFilter) ([]dashboard.RegionSummary, error)
	Summary(ctx context.Context) (dashboard.SummaryView, error)
	Flows(ctx context.Context, year int) ([]dashboard.FlowTotal, error)
}

// OverviewHandler handles region, summary and flow requests.
type OverviewHandler struct {
	deps OverviewDependencies
}

// NewOverviewHandler creates a new overview handler.
func NewOverviewHandler(deps OverviewDependencies) *OverviewHandler {
	return &OverviewHandler{deps: deps}
}

// HandleRegions handles GET /v1/regions?year=&income=&regulatory=.
func (h *OverviewHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	f, err := regionFilter(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	serveYear(w, r, func(ctx context.Context, year int) ([]dashboard.RegionSummary, error) {
		return h.deps.Regions(ctx, year, f)
	})
}

// HandleSummary handles GET /v1/summary.
func (h *OverviewHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Summary(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentSummary(v))
}

// HandleFlows handles GET /v1/flows?year=.
func (h *OverviewHandler) HandleFlows(w http.ResponseWriter, r *http.Request) {
	serveYear(w, r, h.deps.Flows)
}
