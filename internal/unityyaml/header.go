// pattern: Functional Core

package unityyaml

import (
	"strconv"
	"strings"
)

// HeaderPrefix marks the first line of every serialized object in a Unity YAML stream.
const HeaderPrefix = "--- !u!"

// Header is a parsed object header line: "--- !u!<classId> &<fileId> [stripped]".
type Header struct {
	Line     string // Original header text
	ClassID  int    // Persistent class identifier
	FileID   string // File-local object identifier (without the leading '&')
	Stripped bool   // Object is a stripped prefab stand-in
}

// IsHeader reports whether the line starts a new object.
func IsHeader(line string) bool {
	return strings.HasPrefix(line, HeaderPrefix)
}

// ParseHeader splits an object header line into its parts.
// Returns ok=false when the line is not a header or the class ID is not an integer;
// the returned Header still carries the original line.
func ParseHeader(line string) (Header, bool) {
	h := Header{Line: line}
	if !IsHeader(line) {
		return h, false
	}

	fields := strings.Fields(line[len(HeaderPrefix):])
	if len(fields) == 0 {
		return h, false
	}

	classID, err := strconv.Atoi(fields[0])
	if err != nil {
		return h, false
	}
	h.ClassID = classID

	if len(fields) > 1 {
		h.FileID = strings.TrimPrefix(fields[1], "&")
	}
	for _, f := range fields[2:] {
		if f == "stripped" {
			h.Stripped = true
		}
	}

	return h, true
}
