package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smyva-leather/storefront-backend/internal/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Metrics holds the HTTP-level instruments registered in main. Labels stay
// low-cardinality: the route set is fixed.
type Metrics struct {
	Requests  *prometheus.CounterVec   // labels: method, route, status
	Durations *prometheus.HistogramVec // labels: method, route
}

// ObservabilityMiddleware combines:
//   - W3C trace-context extraction
//   - X-Request-ID generation + echo
//   - request-scoped logger injection
//   - HTTP metrics (counter + histogram)
func ObservabilityMiddleware(base *zap.Logger, metrics *Metrics) func(http.Handler) http.Handler {
	prop := otel.GetTextMapPropagator() // W3C by default

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			sc := trace.SpanContextFromContext(ctx)

			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			fields := []zap.Field{zap.String("request_id", rid)}
			if sc.IsValid() {
				fields = append(fields,
					zap.String("trace_id", sc.TraceID().String()),
					zap.String("span_id", sc.SpanID().String()),
				)
			}
			ctx = logging.WithLogger(ctx, base.With(fields...))

			start := time.Now()
			lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lrw, r.WithContext(ctx))

			if metrics == nil {
				return
			}
			route := routeLabel(r.URL.Path)
			statusLabel := strconv.Itoa(lrw.status)
			if metrics.Requests != nil {
				metrics.Requests.WithLabelValues(r.Method, route, statusLabel).Inc()
			}
			if metrics.Durations != nil {
				metrics.Durations.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			}
		})
	}
}

// knownRoutes mirrors the router's fixed path set. Anything else collapses to
// a single label value so scans of random paths cannot mint metric series.
var knownRoutes = map[string]struct{}{
	"/create-transaction":    {},
	"/midtrans-notification": {},
	"/send-contact-email":    {},
	"/health":                {},
}

func routeLabel(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
