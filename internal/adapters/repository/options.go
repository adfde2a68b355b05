package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithDataset replaces the built-in mock dataset.
func WithDataset(ds Dataset) Option {
	return func(s *MemoryStore) {
		s.data = ds
	}
}

// WithLastSync pins the summary's last_sync. The default is construction time.
func WithLastSync(t time.Time) Option {
	return func(s *MemoryStore) {
		if !t.IsZero() {
			s.lastSync = t
		}
	}
}

// WithFailure makes every query fail with err. Used to exercise fetch failures.
func WithFailure(err error) Option {
	return func(s *MemoryStore) {
		s.fail = err
	}
}
