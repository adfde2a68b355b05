package dashboard

import (
	"time"

	"github.com/okian/atlas/internal/domain/model"
)

// SummaryView is the latest global summary with its freshness.
type SummaryView struct {
	Summary *model.GlobalSummary `json:"summary"`
	// Stale is set when the summary never synced or synced more than maxAge
	// before now.
	Stale bool `json:"stale"`
}

// Summary returns the snapshot's global summary, or ErrNoData when the store
// holds none.
func Summary(s *model.Snapshot, now time.Time, maxAge time.Duration) (SummaryView, error) {
	if s == nil {
		return SummaryView{}, ErrNotLoaded
	}
	if s.Summary == nil {
		return SummaryView{}, ErrNoData
	}
	last := s.Summary.LastSync
	return SummaryView{
		Summary: s.Summary,
		Stale:   last == nil || now.Sub(*last) > maxAge,
	}, nil
}
