package tui

import "testing"

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		searchOpen bool
		wantTree   int
		wantStatus int // status bar Y
	}{
		{"standard terminal", 80, 24, false, 21, 23},
		{"with search", 80, 24, true, 20, 23},
		{"large terminal", 120, 40, false, 37, 39},
		{"tiny terminal", 80, 4, false, minTreeHeight, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.width, tt.height, tt.searchOpen)

			if l.Header != (Region{X: 0, Y: 0, Width: tt.width, Height: headerHeight}) {
				t.Errorf("header = %+v", l.Header)
			}
			if l.Tree.Y != headerHeight || l.Tree.Height != tt.wantTree {
				t.Errorf("tree = %+v, want height %d", l.Tree, tt.wantTree)
			}
			if l.StatusBar.Y != tt.wantStatus || l.StatusBar.Height != statusBarHeight {
				t.Errorf("status bar = %+v, want Y %d", l.StatusBar, tt.wantStatus)
			}
			if tt.searchOpen {
				if l.Search.Height != searchHeight || l.Search.Y != l.Tree.Y+l.Tree.Height {
					t.Errorf("search = %+v", l.Search)
				}
			} else if l.Search.Height != 0 {
				t.Errorf("search should be empty when closed, got %+v", l.Search)
			}
		})
	}
}

func TestLayout_TreeRows(t *testing.T) {
	if got := ComputeLayout(80, 24, false).TreeRows(); got != 20 {
		t.Errorf("TreeRows = %d, want 20", got)
	}
	if got := (Layout{}).TreeRows(); got != 1 {
		t.Errorf("TreeRows of empty layout = %d, want 1", got)
	}
}
