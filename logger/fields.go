package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldRequestID = "request_id"
	FieldComponent = "component"

	FieldDomain     = "domain"
	FieldKey        = "key"
	FieldBackend    = "backend"
	FieldRecords    = "records"
	FieldSkipped    = "skipped"
	FieldMisses     = "classification_misses"
	FieldTick       = "tick"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
	FieldCount      = "count"
	FieldPath       = "path"
	FieldAddress    = "address"

	FieldSymbol = "symbol"
)

// Glyphs attached to log lines as the "symbol" field.
const (
	SymSync  = "⟳" // sync passes and the scheduler
	SymStore = "⊔" // record store access
	SymBus   = "⇶" // notification fan-out
)

type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// WithSymbol returns a child logger that tags every line with a glyph.
func WithSymbol(log *zap.SugaredLogger, symbol string) *zap.SugaredLogger {
	return OrNop(log).With(FieldSymbol, symbol)
}
