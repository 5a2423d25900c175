// Package logger wraps zap behind package-level functions that read the
// logger from the context. Long-running operations such as the download
// workers attach a named logger to their context once, and every layer
// below logs through it without threading a logger parameter around.
// The level is adjustable at runtime, which the HTTP transport uses to
// decide whether request dumps are worth building.
package logger
