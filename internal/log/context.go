package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogAnomaly logs a dataset inconsistency found while loading
func (sl *StructuredLogger) LogAnomaly(ctx context.Context, kind, detail string) {
	fields := NewFields().
		WithOperation(OpValidate).
		WithComponent(ComponentDataset)
	fields[FieldAnomaly] = kind

	sl.logger.WarnContext(ctx, detail, fields.ToSlice()...)
}

// LogOperatorNotFound logs a CNPJ lookup that matched no operator
func (sl *StructuredLogger) LogOperatorNotFound(ctx context.Context, cnpj string) {
	fields := NewFields().
		WithCNPJ(cnpj).
		WithOperation(OpRead).
		WithComponent(ComponentOperators)

	sl.logger.InfoContext(ctx, "Operator not found", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}