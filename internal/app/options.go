package service

import (
	"time"

	"github.com/okian/atlas/internal/adapters/repository"
	"github.com/okian/atlas/internal/domain/scoring"
	"github.com/okian/atlas/internal/domain/viewmode"
	"github.com/okian/atlas/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the metric store. The built-in mock dataset is used otherwise.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScorer replaces the default opportunity scorer.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithSnapshotTTL sets how long a loaded year stays fresh.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithRefreshInterval enables background reloads of the default year.
// Zero disables them.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithLoadTimeout bounds one snapshot load, independent of the callers
// waiting on it.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// WithYear sets the reporting year used when callers pass 0.
func WithYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.year = year
		}
	}
}

// WithDefaultMode sets the view mode served when none is requested.
func WithDefaultMode(m viewmode.Mode) Option {
	return func(s *Service) {
		if m.Valid() {
			s.defaultMode = m
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
