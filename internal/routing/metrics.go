package routing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// countRequests records one catalog.http.requests point per request, labelled
// with the matched route pattern and the response status.
func countRequests(next http.Handler) http.Handler {
	requests, err := otel.Meter(meterName).Int64Counter("catalog.http.requests",
		metric.WithDescription("HTTP requests served by the catalog API"),
		metric.WithUnit("{request}"))
	if err != nil {
		requests = noop.Int64Counter{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		requests.Add(r.Context(), 1, metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.request.method", r.Method),
			attribute.Int("http.response.status_code", rec.status),
		))
	})
}
