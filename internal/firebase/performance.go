package firebase

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"saas-platform/backend/internal/logger"
)

const tracerName = "saas-platform/backend/performance"

// Performance records named traces. Finished traces are written to the log;
// extra span processors can export them elsewhere.
type Performance struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

func NewPerformance(appID string, log *logger.Logger, processors ...sdktrace.SpanProcessor) *Performance {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(logSpanProcessor{log: log.Component("performance")}),
	}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	return &Performance{
		tp:     tp,
		tracer: tp.Tracer(tracerName, trace.WithInstrumentationAttributes(attribute.String("app.id", appID))),
	}
}

// Trace starts a named trace. The caller ends it with span.End().
func (p *Performance) Trace(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Middleware traces every request as "METHOD path".
func (p *Performance) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := p.Trace(r.Context(), r.Method+" "+r.URL.Path,
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
		)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (p *Performance) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

type logSpanProcessor struct {
	log *logger.Logger
}

func (logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (l logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	l.log.Debug().
		Str("trace", s.Name()).
		Dur("duration", s.EndTime().Sub(s.StartTime())).
		Msg("trace finished")
}

func (logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (logSpanProcessor) ForceFlush(context.Context) error { return nil }
