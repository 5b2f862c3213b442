package lattice

import (
	"context"
	"log"
	"net/http"
	"time"
)

// TraceDecorator returns a Decorator that reports start, error and
// completion events for every chain link, keyed by the link's middleware
// name. A nil logger uses the standard logger. Decoration is transparent:
// the decorated handler returns exactly what the link returned.
func TraceDecorator(logger *log.Logger) Decorator {
	if logger == nil {
		logger = log.Default()
	}
	return func(label string, next Handler) Handler {
		return func(ctx context.Context, r *http.Request) Response {
			start := time.Now()
			logger.Printf("%s: start %s %s", label, r.Method, r.URL.Path)

			resp := next(ctx, r)

			if status := statusOf(resp); status >= http.StatusInternalServerError {
				logger.Printf("%s: error %s %s status=%d in %s", label, r.Method, r.URL.Path, status, time.Since(start))
			} else {
				logger.Printf("%s: done %s %s in %s", label, r.Method, r.URL.Path, time.Since(start))
			}
			return resp
		}
	}
}
