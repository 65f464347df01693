package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request, continuing an incoming W3C trace
// context, and echoes the trace id in the X-Trace-Id header.
func Tracing(service string, opts ...otelhttp.Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			span := trace.SpanFromContext(r.Context())
			if sc := span.SpanContext(); sc.HasTraceID() {
				w.Header().Set("X-Trace-Id", sc.TraceID().String())
			}
			if id := r.Header.Get(SessionHeader); id != "" {
				span.SetAttributes(attribute.String("session.id", id))
			}
			next.ServeHTTP(w, r)
		})

		all := append([]otelhttp.Option{
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		}, opts...)
		return otelhttp.NewHandler(inner, service, all...)
	}
}
