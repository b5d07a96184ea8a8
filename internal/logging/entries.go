// pattern: Functional Core

package logging

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Entry is one parsed log record.
type Entry struct {
	Timestamp time.Time
	Level     string // DEBUG, INFO, WARN, ERROR
	Scope     string
	Message   string
	Fields    map[string]any
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3}

// String renders the entry on one line with fields in key order.
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(e.Level)
	sb.WriteString(" [")
	sb.WriteString(e.Scope)
	sb.WriteString("] ")
	sb.WriteString(e.Message)

	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}
	return sb.String()
}

// AtLeast reports whether the entry's level is at or above level.
func (e Entry) AtLeast(level string) bool {
	return levelRank[e.Level] >= levelRank[ParseLevel(level)]
}

// ParseLevel normalizes a level name to upper case. Unknown names map to INFO.
func ParseLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}
