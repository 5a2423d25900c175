package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, New(zapcore.DebugLevel))
	assert.NotNil(t, New(nil), "nil enabler falls back to the info level")
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zapcore.Level
		ok    bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"fatal", zapcore.FatalLevel, true},
		{"DEBUG", zapcore.DebugLevel, true},
		{"  info\t", zapcore.InfoLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseLogLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

// The level toggle drives the transport debug dumps, so both directions
// of IsDebugLevel are pinned.
func TestSetLevel(t *testing.T) {
	originalLevel := Level()
	defer SetLevel(originalLevel)

	SetLevel(zapcore.DebugLevel)
	assert.Equal(t, zapcore.DebugLevel, Level())
	assert.True(t, IsDebugLevel())

	SetLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, Level())
	assert.False(t, IsDebugLevel())
}

func TestToContext_RoutesToInjectedLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core))

	Infof(ctx, "queued %d tracks", 3)
	DebugKV(ctx, "download granted", "track_id", "17542309")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "queued 3 tracks", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	assert.Equal(t, "download granted", entries[1].Message)
	assert.Equal(t, map[string]any{"track_id": "17542309"}, entries[1].ContextMap())
}

func TestBackgroundContext_FallsBackToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	originalLogger := Logger()
	defer SetLogger(originalLogger)
	SetLogger(zap.New(core))

	Warn(context.Background(), "session cookie rotated")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "session cookie rotated", entries[0].Message)
}

func TestSetLogger(t *testing.T) {
	originalLogger := Logger()
	defer SetLogger(originalLogger)

	replacement := New(zapcore.ErrorLevel)
	SetLogger(replacement)
	assert.Same(t, replacement, Logger())
}

func TestLevelledVariants_RespectObserverLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := ToContext(context.Background(), zap.New(core))

	Debug(ctx, "not recorded")
	Info(ctx, "not recorded either")
	Errorf(ctx, "grant failed for track %s", "9981")
	WarnKV(ctx, "budget low", "remaining", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "grant failed for track 9981", entries[0].Message)
	assert.Equal(t, "budget low", entries[1].Message)
}

func TestConcurrentLogging(_ *testing.T) {
	ctx := context.Background()
	done := make(chan struct{}, 8)

	for range 8 {
		go func() {
			Info(ctx, "concurrent write")
			done <- struct{}{}
		}()
	}

	for range 8 {
		<-done
	}
}
