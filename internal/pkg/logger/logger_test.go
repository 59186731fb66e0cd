package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("debug")
	require.True(t, ok)
	require.Equal(t, slog.LevelDebug, lvl)

	lvl, ok = ParseLevel("verbose")
	require.False(t, ok)
	require.Equal(t, slog.LevelInfo, lvl)
}

func TestAdapterWritesThroughZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Use(zap.New(core), slog.LevelDebug)

	NewSlogAdapter("component", "test").Info("hello", "key", "value")

	entries := logs.FilterMessage("hello").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "test", fields["component"])
	require.Equal(t, "value", fields["key"])
}
