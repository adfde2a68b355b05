package api

import (
	"net/http"

	"github.com/okian/atlas/internal/domain/viewmode"
)

// ModeDependencies defines the interface for view mode lookups.
type ModeDependencies interface {
	ViewMode(name string) (viewmode.Config, error)
	Modes() []viewmode.Config
}

// ModeHandler handles view mode requests.
type ModeHandler struct {
	deps ModeDependencies
}

// NewModeHandler creates a new mode handler.
func NewModeHandler(deps ModeDependencies) *ModeHandler {
	return &ModeHandler{deps: deps}
}

// HandleList handles GET /v1/modes.
func (h *ModeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Modes())
}

// HandleGet handles GET /v1/modes/{mode}. The name "default" resolves to the
// configured default mode.
func (h *ModeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("mode")
	if name == "default" {
		name = ""
	}
	cfg, err := h.deps.ViewMode(name)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
