package server

// LimiterDone exposes the rate limiter's stop signal to tests.
func (s *Server) LimiterDone() <-chan struct{} {
	return s.limiter.Done()
}
