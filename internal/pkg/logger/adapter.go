package logger

import "beam_automation/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level facade,
// optionally carrying a fixed set of attributes.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter returns a port.Logger backed by the global slog logger.
func NewSlogAdapter(attrs ...any) port.Logger {
	return &slogAdapter{attrs: attrs}
}

func (a *slogAdapter) with(args []any) []any {
	if len(a.attrs) == 0 {
		return args
	}
	merged := make([]any, 0, len(a.attrs)+len(args))
	merged = append(merged, a.attrs...)
	return append(merged, args...)
}

// With adds attributes to every later entry; a is left unchanged.
func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{attrs: a.with(args)}
}

func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.with(args)...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.with(args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.with(args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.with(args)...)
}
