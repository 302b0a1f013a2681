package xanoapi

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xano-community/xano-mcp/internal/domain"
)

const instrumentationName = "github.com/xano-community/xano-mcp/internal/adapter/outbound/xanoapi"

// Limits for payload excerpts in log output.
const (
	maxLoggedBody  = 500
	maxLoggedError = 200
)

// Observer receives callbacks at the two fixed points of a dispatch: right
// before the request goes out, and once the response or fault is known. The
// context returned from OnRequest is handed to OnResponse for the same call.
// Observers must not mutate the request and cannot affect the result.
type Observer interface {
	OnRequest(ctx context.Context, info RequestInfo) context.Context
	OnResponse(ctx context.Context, info ResponseInfo)
}

// RequestInfo describes the outbound call an observer is watching. The URL
// already includes any encoded query string.
type RequestInfo struct {
	Method string
	URL    string
	// Body is the marshaled JSON payload. Empty for GETs and for multipart
	// submissions.
	Body string
}

// ResponseInfo describes the outcome of the call.
type ResponseInfo struct {
	Method string
	URL    string
	// Status is zero when the call never produced an HTTP response.
	Status int
	// Body carries the raw response, populated only on failure paths.
	Body string
	// Err is the error the dispatch is about to return, nil on success.
	Err      error
	Duration time.Duration
}

// LogObserver writes one slog line per dispatch point. Calls whose context
// carries the debug flag log at Info level (Error on failures) with payload
// excerpts; everything else stays at Debug level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver writing through the given logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With("component", "xano_api")}
}

func (o *LogObserver) OnRequest(ctx context.Context, info RequestInfo) context.Context {
	args := []any{
		slog.String("method", info.Method),
		slog.String("url", info.URL),
	}
	if info.Body != "" {
		args = append(args, slog.String("body", truncate(info.Body, maxLoggedBody)))
	}
	o.logger.Log(ctx, requestLevel(ctx), "Dispatching API request.", args...)
	return ctx
}

func (o *LogObserver) OnResponse(ctx context.Context, info ResponseInfo) {
	args := []any{
		slog.String("method", info.Method),
		slog.String("url", info.URL),
		slog.Duration("duration", info.Duration),
	}
	if info.Status != 0 {
		args = append(args, slog.Int("status", info.Status))
	}

	level := requestLevel(ctx)
	if info.Err != nil {
		if level == slog.LevelInfo {
			level = slog.LevelError
		}
		args = append(args, slog.Any("error", info.Err))
		if info.Body != "" {
			args = append(args, slog.String("response_body", truncate(info.Body, maxLoggedError)))
		}
	}
	o.logger.Log(ctx, level, "API request completed.", args...)
}

// requestLevel picks the level for a call: Info when the context carries the
// debug flag, Debug otherwise.
func requestLevel(ctx context.Context) slog.Level {
	if domain.DebugEnabled(ctx) {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// TraceObserver opens an OpenTelemetry client span per dispatch and records
// method, URL, and the resulting status.
type TraceObserver struct {
	tracer trace.Tracer
}

// NewTraceObserver creates a TraceObserver against the global tracer
// provider.
func NewTraceObserver() *TraceObserver {
	return &TraceObserver{tracer: otel.Tracer(instrumentationName)}
}

func (o *TraceObserver) OnRequest(ctx context.Context, info RequestInfo) context.Context {
	ctx, _ = o.tracer.Start(ctx, info.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", info.Method),
			attribute.String("url.full", info.URL),
		),
	)
	return ctx
}

func (o *TraceObserver) OnResponse(ctx context.Context, info ResponseInfo) {
	span := trace.SpanFromContext(ctx)
	if info.Status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", info.Status))
	}
	if info.Err != nil {
		span.SetStatus(codes.Error, info.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// MetricsObserver counts dispatches and records their latency through the
// global meter provider. Without a configured provider both instruments are
// no-ops.
type MetricsObserver struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetricsObserver creates the dispatch instruments.
func NewMetricsObserver() (*MetricsObserver, error) {
	meter := otel.Meter(instrumentationName)

	requests, err := meter.Int64Counter("xano.api.requests",
		metric.WithDescription("Outbound Xano meta API requests."))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("xano.api.request.duration",
		metric.WithDescription("Latency of outbound Xano meta API requests."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &MetricsObserver{requests: requests, duration: duration}, nil
}

func (o *MetricsObserver) OnRequest(ctx context.Context, info RequestInfo) context.Context {
	return ctx
}

func (o *MetricsObserver) OnResponse(ctx context.Context, info ResponseInfo) {
	attrs := metric.WithAttributes(
		attribute.String("method", info.Method),
		attribute.Int("status", info.Status),
	)
	o.requests.Add(ctx, 1, attrs)
	o.duration.Record(ctx, info.Duration.Seconds(), attrs)
}
