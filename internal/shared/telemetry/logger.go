package telemetry

import (
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newLogger()
)

func newLogger() *zap.Logger {
	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "msg",
			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			TimeKey:     "ts",
			EncodeTime:  zapcore.RFC3339TimeEncoder,
		},
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Info(msg, zapFields(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, zapFields(fields)...)
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	mu.RLock()
	l := logger
	mu.RUnlock()
	_ = l.Sync()
}

// SetLogger swaps the package logger, returning the previous one. Used by tests.
func SetLogger(l *zap.Logger) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	prev := logger
	logger = l
	return prev
}

func zapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
