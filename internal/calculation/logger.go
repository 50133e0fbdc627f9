package calculation

// Logger is the logging interface the projection engine writes to.
// The default is a no-op so library callers pay nothing for it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// orNop returns l, or a NopLogger when l is nil
func orNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
