package app

// Logger is the structured logging contract shared by runtime components.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// NopLogger discards every event.
type NopLogger struct{}

// Debug discards a debug event.
func (NopLogger) Debug(string, ...any) {}

// Info discards an informational event.
func (NopLogger) Info(string, ...any) {}

// Warn discards a warning event.
func (NopLogger) Warn(string, ...any) {}

// Error discards an error event.
func (NopLogger) Error(string, ...any) {}
