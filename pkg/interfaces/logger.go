package interfaces

import "context"

// LogField is a single structured field attached to a log entry.
type LogField struct {
	Key   string
	Value interface{}
}

// LoggerPort is the logging boundary for every component in the module.
// The production implementation is backed by Zap, but nothing outside
// internal/adapters/logger may import the logging library directly.
type LoggerPort interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})

	// The *WithContext variants additionally pick up request-scoped
	// fields (request id) stored in the context.
	DebugWithContext(ctx context.Context, msg string, args ...interface{})
	InfoWithContext(ctx context.Context, msg string, args ...interface{})
	WarnWithContext(ctx context.Context, msg string, args ...interface{})
	ErrorWithContext(ctx context.Context, msg string, args ...interface{})

	// WithFields returns a child logger with the fields pre-attached.
	WithFields(fields ...LogField) LoggerPort

	// WithField returns a child logger with a single field pre-attached.
	WithField(key string, value interface{}) LoggerPort

	// Sync flushes any buffered entries.
	Sync() error
}
