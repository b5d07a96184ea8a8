// pattern: Functional Core

package assettree

import "strings"

// Find descends from e along a slash-separated path of child names, taking the
// first matching child at each level. Returns nil when any segment is missing.
func Find(e *Element, path string) *Element {
	if e == nil || path == "" {
		return nil
	}

	cur := e
	for _, part := range strings.Split(path, "/") {
		next := childNamed(cur, part)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// Value returns the value of the element at path, or "".
func Value(e *Element, path string) string {
	if found := Find(e, path); found != nil {
		return found.Value
	}
	return ""
}

// Icon returns the icon of the element at path, or "".
func Icon(e *Element, path string) string {
	if found := Find(e, path); found != nil {
		return found.Icon
	}
	return ""
}

func childNamed(e *Element, name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
