package probe

import (
	"errors"
	"time"
)

// Errors returned by Run.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrVerification = errors.New("verification failed")
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Year    int           // Reporting year; 0 uses the service default
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every check, not only failures
}

// Stats holds probe statistics.
type Stats struct {
	Requests   int
	Sectors    int
	WithData   int
	Checks     int
	Violations []string
	StartTime  time.Time
	Duration   time.Duration
}

// OK reports whether every check passed.
func (s *Stats) OK() bool { return len(s.Violations) == 0 }
