// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// ChannelSink implements zapcore.WriteSyncer and turns each JSON line written by zap
// into an Entry on a buffered channel. Writes never block; when the channel is full
// the oldest entry is dropped.
type ChannelSink struct {
	entries chan Entry
	mu      sync.Mutex
	closed  bool
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{entries: make(chan Entry, bufferSize)}
}

// Write implements io.Writer.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := parseEntry(p)
	if err != nil {
		// Unparseable lines are dropped rather than failing the logger
		return len(p), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("write to closed channel sink")
	}

	select {
	case s.entries <- entry:
	default:
		select {
		case <-s.entries:
		default:
		}
		select {
		case s.entries <- entry:
		default:
		}
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error {
	return nil
}

// Close closes the entries channel. Safe to call more than once.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	return nil
}

// Entries returns the channel of parsed entries.
func (s *ChannelSink) Entries() <-chan Entry {
	return s.entries
}

// parseEntry converts one zap JSON line into an Entry.
func parseEntry(data []byte) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Scope:     "app",
		Fields:    make(map[string]any),
	}

	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = ParseLevel(level)
	}
	if logger, ok := raw["logger"].(string); ok {
		entry.Scope = logger
	}
	if ts, ok := raw["ts"].(float64); ok {
		sec := int64(ts)
		entry.Timestamp = time.Unix(sec, int64((ts-float64(sec))*1e9))
	}

	for _, k := range []string{"msg", "level", "logger", "ts", "caller", "stacktrace"} {
		delete(raw, k)
	}
	for k, v := range raw {
		entry.Fields[k] = v
	}

	return entry, nil
}
