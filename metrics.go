package lattice

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics returns a generator that records a request counter
// (method, path, status) and a latency histogram (method, path) for every
// chain it joins. Both collectors register on reg once, when the generator
// is created, so one generator can serve many routes. The route's
// configuration value is ignored beyond opting the middleware in.
func RequestMetrics(reg prometheus.Registerer) Generator {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lattice_requests_total",
			Help: "Total requests handled, by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lattice_request_duration_seconds",
			Help:    "Request handling latency, by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	reg.MustRegister(requests, duration)

	return func(cfg any) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, r *http.Request) Response {
				start := time.Now()

				resp := next(ctx, r)

				status := strconv.Itoa(statusOf(resp))
				requests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
				duration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())

				return resp
			}
		}
	}
}

// statusOf reports the HTTP status a response will write, when it exposes
// one. Responses of unknown shape count as 200.
func statusOf(resp Response) int {
	if jr, ok := resp.(JSONResponse); ok {
		return jr.StatusCode
	}
	return http.StatusOK
}
