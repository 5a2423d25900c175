package logger

import (
	"context"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultLevel is the log level used until configuration overrides it.
const defaultLevel = zapcore.InfoLevel

var (
	// atomicLevel controls the level of the global logger at runtime.
	atomicLevel = zap.NewAtomicLevelAt(defaultLevel)

	// globalLogger holds the process-wide logger.
	// Swappable so tests can capture output.
	globalLogger atomic.Pointer[zap.Logger]
)

// loggerContextKey is the context key under which a request-scoped logger is stored.
type loggerContextKey struct{}

func init() {
	globalLogger.Store(New(atomicLevel))
}

// New creates a logger with a console encoder writing to stderr.
// A nil level enabler falls back to the package-wide atomic level,
// so SetLevel keeps working for loggers created that way.
func New(level zapcore.LevelEnabler) *zap.Logger {
	if level == nil {
		level = atomicLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core)
}

// ParseLogLevel converts a level name ("debug", "info", …) to a zapcore.Level.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unknown or empty names report false and fall back to info.
func ParseLogLevel(level string) (zapcore.Level, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(level))
	if trimmed == "" {
		return defaultLevel, false
	}

	parsed, err := zapcore.ParseLevel(trimmed)
	if err != nil {
		return defaultLevel, false
	}

	return parsed, true
}

// Logger returns the process-wide logger.
func Logger() *zap.Logger {
	return globalLogger.Load()
}

// SetLogger replaces the process-wide logger. Nil loggers are ignored.
func SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}

	globalLogger.Store(l)
}

// Level returns the current level of the global logger.
func Level() zapcore.Level {
	return atomicLevel.Level()
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(level zapcore.Level) {
	atomicLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug output is currently enabled.
func IsDebugLevel() bool {
	return atomicLevel.Enabled(zapcore.DebugLevel)
}

// ToContext returns a context carrying the given logger.
// Logging functions called with that context use it instead of the global one,
// which lets callers attach fields (e.g. a worker name) to a whole call tree.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// fromContext returns the sugared logger stored in ctx, or the global one.
func fromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerContextKey{}).(*zap.Logger); ok && l != nil {
			return l.Sugar()
		}
	}

	return Logger().Sugar()
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	fromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Debugf(template, args...)
}

// DebugKV logs a message at debug level with alternating key-value pairs.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	fromContext(ctx).Debugw(message, kvs...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	fromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Infof(template, args...)
}

// InfoKV logs a message at info level with alternating key-value pairs.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	fromContext(ctx).Infow(message, kvs...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	fromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Warnf(template, args...)
}

// WarnKV logs a message at warn level with alternating key-value pairs.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	fromContext(ctx).Warnw(message, kvs...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	fromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Errorf(template, args...)
}

// ErrorKV logs a message at error level with alternating key-value pairs.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	fromContext(ctx).Errorw(message, kvs...)
}

// Fatal logs a message at fatal level and exits the process.
func Fatal(ctx context.Context, args ...any) {
	fromContext(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Fatalf(template, args...)
}

// FatalKV logs a message at fatal level with alternating key-value pairs and exits.
func FatalKV(ctx context.Context, message string, kvs ...any) {
	fromContext(ctx).Fatalw(message, kvs...)
}

// Panic logs a message at panic level and panics.
func Panic(ctx context.Context, args ...any) {
	fromContext(ctx).Panic(args...)
}

// Panicf logs a formatted message at panic level and panics.
func Panicf(ctx context.Context, template string, args ...any) {
	fromContext(ctx).Panicf(template, args...)
}

// PanicKV logs a message at panic level with alternating key-value pairs and panics.
func PanicKV(ctx context.Context, message string, kvs ...any) {
	fromContext(ctx).Panicw(message, kvs...)
}
