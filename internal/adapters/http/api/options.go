package api

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits each client to rps requests per second with the given
// burst. Non-positive values leave the API unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = NewRateLimiter(rps, burst)
		}
	}
}
