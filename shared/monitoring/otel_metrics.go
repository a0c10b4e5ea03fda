package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

// Attribute keys for inventory metrics. HTTP metrics use the semconv keys.
const (
	attrBusinessAction    = "inventory.business.action"
	attrBusinessOutcome   = "inventory.business.outcome"
	attrExternalTarget    = "inventory.external.target"
	attrExternalOperation = "inventory.external.operation"
)

var (
	httpRequestsCounter   metric.Int64Counter
	httpRequestDuration   metric.Float64Histogram
	externalCallsCounter  metric.Int64Counter
	externalCallErrors    metric.Int64Counter
	externalCallDuration  metric.Float64Histogram
	businessEventsCounter metric.Int64Counter
	metricsHandler        http.Handler
	initialized           int32
	otelInitOnce          sync.Once
)

// Config holds the configuration for OpenTelemetry metrics
type Config struct {
	// ExporterType can be "prometheus", "otlp", or "none"
	ExporterType   string
	ServiceName    string
	ServiceVersion string
	// OTLPEndpoint is the collector URL, e.g. "https://otel.example.com:4318"
	OTLPEndpoint    string
	OTLPHeaders     map[string]string
	OTLPTLSInsecure bool
	// HistogramBuckets are duration bucket boundaries in seconds
	HistogramBuckets []float64
}

// DefaultConfig returns a configuration read from the environment
func DefaultConfig(serviceName string) Config {
	return Config{
		ExporterType:     utils.GetEnvOrDefault("OTEL_METRICS_EXPORTER", "prometheus"),
		ServiceName:      serviceName,
		ServiceVersion:   utils.GetEnvOrDefault("SERVICE_VERSION", "dev"),
		OTLPEndpoint:     utils.GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPHeaders:      parseHeaders(utils.GetEnvOrDefault("OTEL_EXPORTER_OTLP_HEADERS", "")),
		OTLPTLSInsecure:  utils.GetEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		HistogramBuckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}
}

// Initialize sets up OpenTelemetry metrics. Only the first call has any effect.
func Initialize(config Config) error {
	var initErr error
	otelInitOnce.Do(func() {
		initErr = initializeInternal(context.Background(), config)
		if initErr == nil {
			atomic.StoreInt32(&initialized, 1)
		}
	})
	return initErr
}

func newReader(ctx context.Context, config Config) (sdkmetric.Reader, http.Handler, error) {
	switch config.ExporterType {
	case "prometheus", "":
		reg := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		slog.Info("Initialized OpenTelemetry metrics with Prometheus exporter", "service", config.ServiceName)
		return exporter, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil

	case "otlp":
		if config.OTLPEndpoint == "" {
			return nil, nil, fmt.Errorf("OTLP endpoint is required when using OTLP exporter")
		}
		endpointURL, err := url.Parse(config.OTLPEndpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid OTLP endpoint URL: %w", err)
		}
		if endpointURL.Scheme != "https" && !config.OTLPTLSInsecure {
			return nil, nil, fmt.Errorf("OTLP endpoint must use HTTPS (got: %s); set OTEL_EXPORTER_OTLP_INSECURE=true to allow plain HTTP", endpointURL.Scheme)
		}

		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpointURL.Host)}
		if endpointURL.Scheme == "http" {
			slog.Warn("Using insecure HTTP connection for OTLP endpoint", "endpoint", config.OTLPEndpoint)
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(config.OTLPHeaders) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(config.OTLPHeaders))
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		slog.Info("Initialized OpenTelemetry metrics with OTLP exporter",
			"service", config.ServiceName, "endpoint", config.OTLPEndpoint)
		return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second)),
			staticHandler(http.StatusOK, "# Metrics exported via OTLP\n"), nil

	case "none":
		slog.Info("OpenTelemetry metrics disabled", "service", config.ServiceName)
		return sdkmetric.NewManualReader(), staticHandler(http.StatusOK, "# Metrics disabled\n"), nil
	}
	return nil, nil, fmt.Errorf("unknown exporter type: %s (supported: prometheus, otlp, none)", config.ExporterType)
}

func durationView(name string, buckets []float64) sdkmetric.View {
	return sdkmetric.NewView(
		sdkmetric.Instrument{Name: name},
		sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: buckets}},
	)
}

func initializeInternal(ctx context.Context, config Config) error {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	reader, handler, err := newReader(ctx, config)
	if err != nil {
		return err
	}
	metricsHandler = handler

	buckets := config.HistogramBuckets
	if len(buckets) == 0 {
		buckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(durationView("http_request_duration_seconds", buckets)),
		sdkmetric.WithView(durationView("external_call_duration_seconds", buckets)),
	)
	otel.SetMeterProvider(meterProvider)
	meter := otel.Meter("home-inventory")

	// Go runtime metrics (goroutines, GC, memory)
	if err := otelruntime.Start(
		otelruntime.WithMinimumReadMemStatsInterval(10*time.Second),
		otelruntime.WithMeterProvider(meterProvider),
	); err != nil {
		slog.Warn("Failed to start runtime metrics", "error", err)
	}

	if httpRequestsCounter, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"), metric.WithUnit("1")); err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}
	if httpRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s")); err != nil {
		return fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}
	if externalCallsCounter, err = meter.Int64Counter("external_calls_total",
		metric.WithDescription("Total number of calls to the database, audit sink and identity provider"), metric.WithUnit("1")); err != nil {
		return fmt.Errorf("failed to create external_calls_total counter: %w", err)
	}
	if externalCallErrors, err = meter.Int64Counter("external_call_errors_total",
		metric.WithDescription("Total number of failed external calls"), metric.WithUnit("1")); err != nil {
		return fmt.Errorf("failed to create external_call_errors_total counter: %w", err)
	}
	if externalCallDuration, err = meter.Float64Histogram("external_call_duration_seconds",
		metric.WithDescription("External call duration in seconds"), metric.WithUnit("s")); err != nil {
		return fmt.Errorf("failed to create external_call_duration_seconds histogram: %w", err)
	}
	if businessEventsCounter, err = meter.Int64Counter("business_events_total",
		metric.WithDescription("Total number of inventory and claim events"), metric.WithUnit("1")); err != nil {
		return fmt.Errorf("failed to create business_events_total counter: %w", err)
	}
	return nil
}

func staticHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func otelHandler() http.Handler {
	if atomic.LoadInt32(&initialized) == 0 || metricsHandler == nil {
		return staticHandler(http.StatusServiceUnavailable, "# Metrics not initialized\n")
	}
	return metricsHandler
}

func otelRecordRequest(method, route string, status int, duration time.Duration) {
	if atomic.LoadInt32(&initialized) == 0 {
		return
	}
	ctx := context.Background()
	httpRequestsCounter.Add(ctx, 1, metric.WithAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.HTTPRouteKey.String(route),
		semconv.HTTPResponseStatusCodeKey.Int(status),
	))
	httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.HTTPRouteKey.String(route),
	))
}

func otelRecordExternalCall(target, operation string, duration time.Duration, err error) {
	if atomic.LoadInt32(&initialized) == 0 {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String(attrExternalTarget, target),
		attribute.String(attrExternalOperation, operation),
	)
	externalCallsCounter.Add(ctx, 1, attrs)
	externalCallDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		externalCallErrors.Add(ctx, 1, attrs)
	}
}

func otelRecordBusinessEvent(action, outcome string) {
	if atomic.LoadInt32(&initialized) == 0 {
		return
	}
	businessEventsCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String(attrBusinessAction, action),
		attribute.String(attrBusinessOutcome, outcome),
	))
}

// parseHeaders reads "key1=value1,key2=value2"
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(headerStr, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 {
			headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return headers
}
