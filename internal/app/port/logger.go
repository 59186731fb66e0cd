package port

// Logger is the key/value logging surface handed to services and executors.
// Args alternate key, value as with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a Logger that prefixes every entry with args.
	With(args ...any) Logger
}
