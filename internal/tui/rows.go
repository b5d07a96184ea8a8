// pattern: Functional Core

package tui

import (
	"assettree/internal/assettree"
)

// row is one visible line of the tree.
type row struct {
	el     *assettree.Element
	depth  int
	parent int // ID of the parent element, 0 for file roots
	match  bool
}

// flattenRows lists the elements visible under the expanded set, in tree order.
func flattenRows(roots []*assettree.Element, expanded map[int]bool) []row {
	var rows []row
	var visit func(e *assettree.Element, depth, parent int)
	visit = func(e *assettree.Element, depth, parent int) {
		rows = append(rows, row{el: e, depth: depth, parent: parent})
		if !expanded[e.ID] {
			return
		}
		for _, c := range e.Children {
			visit(c, depth+1, e.ID)
		}
	}
	for _, r := range roots {
		visit(r, 0, 0)
	}
	return rows
}

// filterRows lists the search hits together with all their ancestors, in tree order.
// Expansion state is ignored so every hit is reachable.
func filterRows(roots []*assettree.Element, hits []assettree.Hit) []row {
	if len(hits) == 0 {
		return nil
	}

	keep := make(map[int]bool)
	matched := make(map[int]bool, len(hits))
	for _, h := range hits {
		matched[h.Element.ID] = true
		keep[h.Element.ID] = true
		for _, id := range h.Ancestors {
			keep[id] = true
		}
	}

	var rows []row
	var visit func(e *assettree.Element, depth, parent int)
	visit = func(e *assettree.Element, depth, parent int) {
		if !keep[e.ID] {
			return
		}
		rows = append(rows, row{el: e, depth: depth, parent: parent, match: matched[e.ID]})
		for _, c := range e.Children {
			visit(c, depth+1, e.ID)
		}
	}
	for _, r := range roots {
		visit(r, 0, 0)
	}
	return rows
}

// ancestorIDs returns the IDs on the path from a root down to, but excluding, id.
func ancestorIDs(roots []*assettree.Element, id int) []int {
	var path []int
	var found bool
	var visit func(e *assettree.Element) bool
	visit = func(e *assettree.Element) bool {
		if e.ID == id {
			return true
		}
		path = append(path, e.ID)
		for _, c := range e.Children {
			if visit(c) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	for _, r := range roots {
		if found = visit(r); found {
			break
		}
	}
	if !found {
		return nil
	}
	return path
}

// rowIndex returns the index of the row showing element id, or -1.
func rowIndex(rows []row, id int) int {
	for i, r := range rows {
		if r.el.ID == id {
			return i
		}
	}
	return -1
}
