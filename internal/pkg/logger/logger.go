package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	globalZap    *zap.Logger
)

// ParseLevel maps a config level string onto a slog level. Unknown values fall back to INFO.
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO", "":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Init builds the process-wide zap logger, bridges slog onto it and installs it as slog's default.
// The returned zap logger is handed to components that log through zap directly.
func Init(levelStr string, development bool) (*zap.Logger, error) {
	level, ok := ParseLevel(levelStr)

	var zcfg zap.Config
	if development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel(level))

	zapLogger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	Use(zapLogger, level)
	if !ok {
		Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
	return zapLogger, nil
}

// Use installs an existing zap logger as the slog backend.
func Use(zapLogger *zap.Logger, level slog.Level) {
	handler := slogzap.Option{Level: level, Logger: zapLogger}.NewZapHandler()

	mu.Lock()
	globalZap = zapLogger
	globalLogger = slog.New(handler)
	mu.Unlock()

	slog.SetDefault(globalLogger)
}

// Zap returns the zap logger behind the facade.
func Zap() *zap.Logger {
	current()
	mu.RLock()
	defer mu.RUnlock()
	return globalZap
}

// Sync flushes buffered zap output.
func Sync() {
	mu.RLock()
	z := globalZap
	mu.RUnlock()
	if z != nil {
		_ = z.Sync()
	}
}

func current() *slog.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Use(zap.NewNop(), slog.LevelInfo)
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	l := current()
	if l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	current().Error(msg, args...)
	Sync()
	os.Exit(1)
}
