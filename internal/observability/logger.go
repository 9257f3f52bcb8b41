package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It discards everything until InitLogger
// runs.
var Logger = zap.NewNop()

// InitLogger replaces Logger with a JSON production logger at the given level
// ("debug", "info", "warn", "error").
func InitLogger(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	Logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself is attached as a zap.Any("context", ctx) field. The otelzap core
// uses a context-valued field as the context for log.Logger.Emit, which fills
// in the native TraceID and SpanID of the exported OTLP record. Without it
// the bridge emits with context.Background() and the records carry zero ids.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		// Human-readable fields for stdout JSON and ad-hoc log grepping.
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
