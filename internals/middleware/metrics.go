package middle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type MetricsRecorder interface {
	Observe(method, path string, duration time.Duration)
}

// Metrics records request latency labelled by the matched route pattern, so
// path parameters do not explode label cardinality.
func Metrics(recorder MetricsRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					path = p
				}
			}

			recorder.Observe(
				r.Method,
				path,
				time.Since(start),
			)
		}
		return http.HandlerFunc(fn)
	}
}
