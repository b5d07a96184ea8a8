// pattern: Imperative Shell

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager writes to a channel only, for asserting on log output in tests.
type TestLogManager struct {
	sink    *ChannelSink
	baseZap *zap.Logger
	loggers scopeCache
}

// NewTestLogManager creates a channel-only manager at debug level.
func NewTestLogManager(bufferSize int) *TestLogManager {
	sink := NewChannelSink(bufferSize)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(sink),
		zapcore.DebugLevel,
	)

	return &TestLogManager{
		sink:    sink,
		baseZap: zap.New(core),
		loggers: scopeCache{loggers: make(map[string]*ScopedLogger)},
	}
}

// For returns a scoped logger, matching the Manager API.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	return m.loggers.get(scope, func() *ScopedLogger {
		return newScopedLogger(m.baseZap, zapcore.DebugLevel, scope)
	})
}

// Channel returns the channel receiving log entries.
func (m *TestLogManager) Channel() <-chan Entry {
	return m.sink.Entries()
}

// Close closes the channel.
func (m *TestLogManager) Close() error {
	return m.sink.Close()
}
