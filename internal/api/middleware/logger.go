package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Investment-Profit-Tracker/internal/logger"
)

var sanitize = strings.NewReplacer("\n", "", "\r", "").Replace

// Logger returns a middleware that logs method, path, status and duration of
// every request, tagged with the chi request ID when present.
func Logger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			l := log
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				l = l.With("requestId", id)
			}
			msg := "%s %s %d %s"
			args := []interface{}{sanitize(r.Method), sanitize(r.URL.Path), wrapped.statusCode, time.Since(start)}
			if wrapped.statusCode >= http.StatusInternalServerError {
				l.Warnf(msg, args...)
				return
			}
			l.Infof(msg, args...)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
