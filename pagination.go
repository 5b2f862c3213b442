package lattice

import (
	"context"
	"net/http"
	"strconv"
)

const pageParamsKey contextKey = "pageParams"

// PageParams holds the pagination window parsed from the query string.
type PageParams struct {
	Page    int
	PerPage int
}

// Pagination returns a generator that parses "page" and "per_page" query
// parameters into the request context. The route's configuration value,
// when a PageParams, supplies the defaults; otherwise page 1 with 20 per
// page. Values that fail to parse, or are not positive, keep the defaults.
func Pagination() Generator {
	return func(cfg any) Middleware {
		defaults, ok := cfg.(PageParams)
		if !ok {
			defaults = PageParams{Page: 1, PerPage: 20}
		}
		return func(next Handler) Handler {
			return func(ctx context.Context, r *http.Request) Response {
				params := defaults
				query := r.URL.Query()
				if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 0 {
					params.Page = v
				}
				if v, err := strconv.Atoi(query.Get("per_page")); err == nil && v > 0 {
					params.PerPage = v
				}
				return next(WithPageParams(ctx, params), r)
			}
		}
	}
}

// WithPageParams adds a pagination window to the request context.
func WithPageParams(ctx context.Context, p PageParams) context.Context {
	return context.WithValue(ctx, pageParamsKey, p)
}

// GetPageParams extracts the pagination window from the request context.
// The boolean reports whether one was set.
func GetPageParams(ctx context.Context) (PageParams, bool) {
	p, ok := ctx.Value(pageParamsKey).(PageParams)
	return p, ok
}
