package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Tracing instruments requests with otelhttp, naming the span after chi's
// matched route pattern so checkout and admin endpoints stay low cardinality
// regardless of path parameters.
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := http.HandlerFunc(func(w2 http.ResponseWriter, r2 *http.Request) {
				operation := r2.Method + " " + r2.URL.Path
				if rctx := chi.RouteContext(r2.Context()); rctx != nil && rctx.RoutePattern() != "" {
					operation = r2.Method + " " + rctx.RoutePattern()
				}
				otelhttp.NewHandler(next, operation).ServeHTTP(w2, r2)
			})

			wrapped.ServeHTTP(w, r)
		})
	}
}
