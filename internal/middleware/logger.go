package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tomasen/realip"

	"github.com/Decentr-net/agora/internal/metrics"
)

// nolint:gochecknoglobals
var log = logrus.WithField("layer", "api").WithField("package", "middleware")

// Logger logs every request with the client's real ip and observes request latency.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		elapsed := time.Since(start)
		metrics.RequestLatency.WithLabelValues(r.Method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())

		l := log.WithFields(logrus.Fields{
			"ip":         realip.FromRequest(r),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     status,
			"elapsed":    elapsed,
			"request_id": middleware.GetReqID(r.Context()),
		})

		if status >= http.StatusInternalServerError {
			l.Warn("request failed")
			return
		}
		l.Debug("request served")
	})
}

// BodyLimiter limits size of request body.
func BodyLimiter(size int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
