// pattern: Imperative Shell

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager.
type Config struct {
	FilePath       string // Path to log file
	MaxSizeMB      int    // Max size in MB before rotation
	MaxBackups     int    // Max number of old log files to keep
	MaxAgeDays     int    // Max days to keep old log files
	Level          string // Minimum log level (debug, info, warn, error)
	ChannelBufSize int    // Buffer size for the entry channel (default 256)
}

// LoggerProvider hands out scoped loggers.
// Both Manager and TestLogManager implement this interface.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// ScopedLogger is an slog front end over a named zap logger.
type ScopedLogger struct {
	slog *slog.Logger
}

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Info(msg, args...)
	}
}

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Debug(msg, args...)
	}
}

// Warn logs at WARN level.
func (l *ScopedLogger) Warn(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Warn(msg, args...)
	}
}

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) {
	if l.slog != nil {
		l.slog.Error(msg, args...)
	}
}

// With returns a logger that adds the given key-value pairs to every entry.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l.slog == nil {
		return l
	}
	return &ScopedLogger{slog: l.slog.With(args...)}
}

// Manager writes JSON logs to a rotated file and mirrors parsed entries to a channel.
type Manager struct {
	baseZap    *zap.Logger
	sink       *ChannelSink
	fileWriter *lumberjack.Logger
	loggers    scopeCache
	level      zapcore.Level
}

// NewManager creates a log manager with the given configuration.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("FilePath is required")
	}

	if cfg.ChannelBufSize == 0 {
		cfg.ChannelBufSize = 256
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	sink := NewChannelSink(cfg.ChannelBufSize)

	encoder := zapcore.NewJSONEncoder(encoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(fileWriter), level),
		zapcore.NewCore(encoder.Clone(), zapcore.AddSync(sink), level),
	)

	return &Manager{
		baseZap:    zap.New(core),
		sink:       sink,
		fileWriter: fileWriter,
		loggers:    scopeCache{loggers: make(map[string]*ScopedLogger)},
		level:      level,
	}, nil
}

// For returns the cached logger for scope, creating it on first use.
func (m *Manager) For(scope string) *ScopedLogger {
	return m.loggers.get(scope, func() *ScopedLogger {
		return newScopedLogger(m.baseZap, m.level, scope)
	})
}

// Entries returns the channel of parsed log entries.
func (m *Manager) Entries() <-chan Entry {
	return m.sink.Entries()
}

// Sync flushes buffered logs.
func (m *Manager) Sync() error {
	return m.baseZap.Sync()
}

// Close syncs and releases the file and channel.
func (m *Manager) Close() error {
	_ = m.Sync()
	_ = m.sink.Close()
	return m.fileWriter.Close()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.EpochTimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

func newScopedLogger(base *zap.Logger, level zapcore.Level, scope string) *ScopedLogger {
	handler := &zapSlogHandler{zap: base.Named(scope), level: level}
	return &ScopedLogger{slog: slog.New(handler)}
}

// scopeCache holds one logger per scope.
type scopeCache struct {
	mu      sync.RWMutex
	loggers map[string]*ScopedLogger
}

func (c *scopeCache) get(scope string, create func() *ScopedLogger) *ScopedLogger {
	c.mu.RLock()
	if logger, ok := c.loggers[scope]; ok {
		c.mu.RUnlock()
		return logger
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if logger, ok := c.loggers[scope]; ok {
		return logger
	}
	logger := create()
	c.loggers[scope] = logger
	return logger
}

// zapSlogHandler adapts zap.Logger to slog.Handler.
type zapSlogHandler struct {
	zap   *zap.Logger
	level zapcore.Level
	attrs []slog.Attr
}

func (h *zapSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return toZapLevel(level) >= h.level
}

func (h *zapSlogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs()+len(h.attrs))
	for _, attr := range h.attrs {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
	}
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
		return true
	})

	if ce := h.zap.Check(toZapLevel(r.Level), r.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &zapSlogHandler{zap: h.zap, level: h.level, attrs: merged}
}

func (h *zapSlogHandler) WithGroup(name string) slog.Handler {
	return &zapSlogHandler{zap: h.zap.Named(name), level: h.level, attrs: h.attrs}
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
