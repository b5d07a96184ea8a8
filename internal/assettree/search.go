// pattern: Functional Core

package assettree

import (
	"strconv"
	"strings"
)

// Matches reports whether query occurs, ignoring case, in the element's name, value,
// asset path, label under opt, or for object roots its class name or class ID.
// An empty query matches everything.
func (e *Element) Matches(query string, opt DisplayOption) bool {
	if e == nil {
		return false
	}
	if query == "" {
		return true
	}

	q := strings.ToLower(query)
	hit := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), q)
	}

	if hit(e.Name) || hit(e.Value) || hit(e.AssetPath) {
		return true
	}
	if e.Object != nil {
		if hit(e.Object.ClassName) || hit(e.Object.ScriptClassName) || hit(strconv.Itoa(e.Object.ClassID)) {
			return true
		}
	}
	return hit(e.DisplayName(opt))
}

// Hit is one search result with the IDs of its ancestors, outermost first.
type Hit struct {
	Element   *Element
	Ancestors []int
	Depth     int
}

// Search returns every element under roots matching query, in tree order.
func Search(roots []*Element, query string, opt DisplayOption) []Hit {
	var hits []Hit
	var path []int
	var visit func(e *Element)
	visit = func(e *Element) {
		if e.Matches(query, opt) {
			hits = append(hits, Hit{
				Element:   e,
				Ancestors: append([]int(nil), path...),
				Depth:     len(path),
			})
		}
		path = append(path, e.ID)
		for _, c := range e.Children {
			visit(c)
		}
		path = path[:len(path)-1]
	}
	for _, r := range roots {
		if r != nil {
			visit(r)
		}
	}
	return hits
}

// FindByID returns the element with id under roots, or nil.
func FindByID(roots []*Element, id int) *Element {
	var found *Element
	for _, r := range roots {
		r.Walk(func(e *Element, _ int) bool {
			if found != nil {
				return false
			}
			if e.ID == id {
				found = e
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// CopyText joins the labels of elems under opt, one per line.
func CopyText(elems []*Element, opt DisplayOption) string {
	var sb strings.Builder
	for _, e := range elems {
		sb.WriteString(e.DisplayName(opt))
		sb.WriteString("\n")
	}
	return sb.String()
}
