package monitoring

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
)

var (
	initOnce sync.Once
	initErr  error
)

// ensureInitialized initializes metrics from the environment on first use.
// ENABLE_OBSERVABILITY=false or OTEL_METRICS_ENABLED=false turns metrics off.
func ensureInitialized() {
	initOnce.Do(func() {
		if !IsObservabilityEnabled() {
			slog.Info("Observability disabled via environment variable, skipping initialization")
			initErr = errors.New("observability disabled via environment variable")
			return
		}

		serviceName := utils.GetEnvOrDefault("SERVICE_NAME", "home-inventory")
		initErr = Initialize(DefaultConfig(serviceName))
		if initErr != nil {
			slog.Error("Failed to initialize OpenTelemetry metrics, metrics will be disabled",
				"error", initErr, "service", serviceName)
		}
	})
}

// IsInitialized reports whether metrics are being collected
func IsInitialized() bool {
	ensureInitialized()
	return initErr == nil
}

// IsObservabilityEnabled checks ENABLE_OBSERVABILITY and OTEL_METRICS_ENABLED
func IsObservabilityEnabled() bool {
	return utils.GetEnvBoolOrDefault("ENABLE_OBSERVABILITY", true) &&
		utils.GetEnvBoolOrDefault("OTEL_METRICS_ENABLED", true)
}

// Handler returns the metrics HTTP handler
func Handler() http.Handler {
	ensureInitialized()
	return otelHandler()
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware records request counts and durations labelled by the chi route pattern.
// Unmatched paths are recorded as "unknown" to bound label cardinality.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	ensureInitialized()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		otelRecordRequest(r.Method, routeLabel(r, rw.statusCode), rw.statusCode, time.Since(start))
	})
}

func routeLabel(r *http.Request, status int) string {
	if status == http.StatusNotFound {
		return "unknown"
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}

// RecordExternalCall records a call to the database, audit sink or identity provider
func RecordExternalCall(target, operation string, duration time.Duration, err error) {
	ensureInitialized()
	otelRecordExternalCall(target, operation, duration, err)
}

// RecordBusinessEvent records a domain event such as "room_created" with its outcome
func RecordBusinessEvent(action, outcome string) {
	ensureInitialized()
	otelRecordBusinessEvent(action, outcome)
}
