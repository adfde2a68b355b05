// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SectorDependencies
	RankingDependencies
	OverviewDependencies
	ModeDependencies
}

// Server wires HTTP routes for the read API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sectorHandler   *SectorHandler
	rankingHandler  *RankingHandler
	overviewHandler *OverviewHandler
	modeHandler     *ModeHandler

	limiter *RateLimiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sectorHandler:   NewSectorHandler(deps),
		rankingHandler:  NewRankingHandler(deps),
		overviewHandler: NewOverviewHandler(deps),
		modeHandler:     NewModeHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	s.route(mux, "GET /v1/sectors", "sectors", s.sectorHandler.HandleList)
	s.route(mux, "GET /v1/sectors/{id}", "sector", s.sectorHandler.HandleGet)
	s.route(mux, "GET /v1/sectors/{id}/regions", "sector_regions", s.sectorHandler.HandleRegions)
	s.route(mux, "GET /v1/heatmap", "heatmap", s.rankingHandler.HandleHeatmap)
	s.route(mux, "GET /v1/quadrant", "quadrant", s.rankingHandler.HandleQuadrant)
	s.route(mux, "GET /v1/risks", "risks", s.rankingHandler.HandleRisks)
	s.route(mux, "GET /v1/compare", "compare", s.rankingHandler.HandleCompare)
	s.route(mux, "GET /v1/regions", "regions", s.overviewHandler.HandleRegions)
	s.route(mux, "GET /v1/summary", "summary", s.overviewHandler.HandleSummary)
	s.route(mux, "GET /v1/flows", "flows", s.overviewHandler.HandleFlows)
	s.route(mux, "GET /v1/modes", "modes", s.modeHandler.HandleList)
	s.route(mux, "GET /v1/modes/{mode}", "mode", s.modeHandler.HandleGet)
}

// route registers a data endpoint behind the rate limiter and metrics.
func (s *Server) route(mux *http.ServeMux, pattern, endpoint string, h http.HandlerFunc) {
	if s.limiter != nil {
		h = s.limiter.Middleware(h, endpoint)
	}
	mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
