package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/inboxsift/inboxsift/internal/logging"
)

// statusRecorder captures the status code written by a handler so the
// request can be logged and counted after it completes.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request logging and HTTP metrics. The
// route pattern, not the raw URL, becomes the metric label so path
// parameters don't explode cardinality.
func (s *Server) instrument(pattern string, h http.HandlerFunc) http.Handler {
	// Strip the method prefix from Go 1.22 mux patterns ("GET /senders").
	path := pattern
	if i := strings.Index(pattern, " "); i >= 0 {
		path = pattern[i+1:]
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h(rec, r)

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, duration)
		s.logger.Info("http request",
			logging.Operation("server.http"),
			"method", r.Method,
			"path", path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds())
	})
}
