// pattern: Functional Core

package tui

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Header    Region // Title and open file (2 lines)
	Tree      Region // Tree rows, panel header included
	Search    Region // Search input (1 line when open)
	StatusBar Region // Status bar (1 line)
}

// Fixed heights for chrome elements
const (
	headerHeight    = 2 // Title + file line
	searchHeight    = 1
	statusBarHeight = 1
	minTreeHeight   = 3 // Panel header + at least two rows
)

// ComputeLayout calculates regions based on terminal dimensions.
// The search line is only allocated while searchOpen is true.
func ComputeLayout(width, height int, searchOpen bool) Layout {
	fixed := headerHeight + statusBarHeight
	if searchOpen {
		fixed += searchHeight
	}

	treeHeight := height - fixed
	if treeHeight < minTreeHeight {
		treeHeight = minTreeHeight
	}

	y := 0
	header := Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight

	tree := Region{X: 0, Y: y, Width: width, Height: treeHeight}
	y += treeHeight

	var search Region
	if searchOpen {
		search = Region{X: 0, Y: y, Width: width, Height: searchHeight}
		y += searchHeight
	}

	statusBar := Region{X: 0, Y: y, Width: width, Height: statusBarHeight}

	return Layout{
		Header:    header,
		Tree:      tree,
		Search:    search,
		StatusBar: statusBar,
	}
}

// TreeRows returns the number of element rows visible in the tree region
// after its one-line panel header.
func (l Layout) TreeRows() int {
	h := l.Tree.Height - 1
	if h < 1 {
		h = 1
	}
	return h
}
