// pattern: Imperative Shell

package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"assettree/internal/assettree"
)

// doubleCtrlCWindow is the maximum time between two ctrl+c presses to trigger quit.
const doubleCtrlCWindow = 500 * time.Millisecond

const quitHint = "ctrl+c ctrl+c to quit"

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(msg.Width-4, 1)
		m.ensureVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.statusSpinner, cmd = m.statusSpinner.Update(msg)
		return m, cmd

	case treeLoadedMsg:
		m.applyTree(msg)
		if msg.reload {
			return m, nil
		}
		cmd := m.startWatch()
		return m, cmd

	case filesChangedMsg:
		if msg.ch != m.changes {
			return m, nil
		}
		m.logger.Info("open files changed on disk", "files", msg.files)
		m.loading = true
		m.setStatus(StatusLoading, "Reloading…")
		return m, tea.Batch(m.loadTree(m.files, true), waitForChange(msg.ch), m.statusSpinner.Tick)

	case logEntriesMsg:
		for _, e := range msg.entries {
			if !e.AtLeast("warn") {
				continue
			}
			level := StatusWarn
			if e.AtLeast("error") {
				level = StatusError
			}
			m.setStatus(level, e.Message)
		}
		if m.entries != nil {
			return m, consumeLogEntries(m.entries)
		}
		return m, nil

	case clearStatusMsg:
		// Only clear if the message is still the one that scheduled this.
		if m.statusMessage == msg.message && m.statusLevel != StatusError {
			m.clearStatus()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searchOpen {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlD {
		return m, tea.Quit
	}
	if msg.Type == tea.KeyCtrlC {
		now := time.Now()
		if !m.lastCtrlCTime.IsZero() && now.Sub(m.lastCtrlCTime) <= doubleCtrlCWindow {
			return m, tea.Quit
		}
		m.lastCtrlCTime = now
		m.setStatus(StatusInfo, quitHint)
		return m, clearStatusAfter(quitHint)
	}

	if m.searchOpen {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		if m.query != "" {
			m.revealSelected()
			return m, nil
		}
		if len(m.marked) > 0 && m.statusLevel != StatusError && m.statusLevel != StatusWarn {
			clear(m.marked)
			m.setStatus(StatusInfo, "Marks cleared")
			return m, clearStatusAfter(m.statusMessage)
		}
		if m.statusLevel == StatusError || m.statusLevel == StatusWarn {
			m.clearStatus()
		}
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.pageSize())
	case "pgdown":
		m.moveCursor(m.pageSize())
	case "home":
		m.moveCursor(-len(m.rows))
	case "end":
		m.moveCursor(len(m.rows))

	case "enter", " ":
		if m.query != "" {
			m.revealSelected()
			return m, nil
		}
		m.toggleSelected()
	case "right", "l":
		m.expandSelected()
	case "left", "h":
		m.collapseSelected()

	case "/":
		m.searchOpen = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		m.ensureVisible()
		return m, m.searchInput.Focus()

	case "i":
		m.showIcons = !m.showIcons
		m.setStatus(StatusInfo, "Icons "+onOff(m.showIcons))
		return m, clearStatusAfter(m.statusMessage)
	case "c":
		return m.toggleOption(assettree.ClassIDToClassName, "Class names")
	case "g":
		return m.toggleOption(assettree.GUIDToAssetPath, "GUID paths")

	case "m":
		m.toggleMark()
	case "y":
		return m.copySelected()
	case "o":
		return m.openSelected()
	case "backspace":
		return m.goBack()
	case "r":
		m.loading = true
		m.setStatus(StatusLoading, "Reloading…")
		return m, tea.Batch(m.reloadTree(), m.statusSpinner.Tick)
	}
	return m, nil
}

// handleSearchKey routes keys to the search input. The filter follows the input live.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchOpen = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.setQuery("")
		return m, nil
	case tea.KeyEnter:
		m.searchOpen = false
		m.searchInput.Blur()
		m.ensureVisible()
		if m.query != "" {
			m.setStatus(StatusInfo, fmt.Sprintf("%d matches for %q", m.matchCount(), m.query))
		}
		return m, nil
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.query {
		m.setQuery(v)
	}
	return m, cmd
}

// applyTree installs a built tree. A reload keeps expansion and the selected element.
func (m *Model) applyTree(msg treeLoadedMsg) {
	var selectedID int
	if sel := m.Selected(); sel != nil {
		selectedID = sel.ID
	}

	m.loading = false
	m.files = msg.files
	m.roots = msg.roots

	if !msg.reload {
		m.expanded = make(map[int]bool)
		m.marked = make(map[int]bool)
		for _, r := range m.roots {
			m.expanded[r.ID] = true
		}
		m.cursor = 0
		m.offset = 0
	}
	m.refreshRows()

	if msg.reload && selectedID != 0 {
		if idx := rowIndex(m.rows, selectedID); idx >= 0 {
			m.cursor = idx
		}
	}
	m.clampCursor()

	objects := 0
	for _, r := range m.roots {
		objects += len(r.Children)
	}
	m.logger.Debug("tree loaded", "files", len(m.files), "objects", objects, "reload", msg.reload)
	m.setStatus(StatusInfo, fmt.Sprintf("%d objects", objects))
}

// refreshRows recomputes the visible rows from the tree, expansion and query.
func (m *Model) refreshRows() {
	if m.query != "" {
		m.rows = filterRows(m.roots, assettree.Search(m.roots, m.query, m.option))
	} else {
		m.rows = flattenRows(m.roots, m.expanded)
	}
	m.clampCursor()
}

func (m *Model) setQuery(q string) {
	m.query = q
	m.refreshRows()
	if q == "" {
		return
	}
	for i, r := range m.rows {
		if r.match {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

func (m Model) matchCount() int {
	n := 0
	for _, r := range m.rows {
		if r.match {
			n++
		}
	}
	return n
}

// revealSelected clears the filter and expands the ancestors of the selected element
// so it stays under the cursor.
func (m *Model) revealSelected() {
	sel := m.Selected()
	m.query = ""
	m.searchInput.SetValue("")
	if sel == nil {
		m.refreshRows()
		return
	}
	for _, id := range ancestorIDs(m.roots, sel.ID) {
		m.expanded[id] = true
	}
	m.refreshRows()
	if idx := rowIndex(m.rows, sel.ID); idx >= 0 {
		m.cursor = idx
	}
	m.ensureVisible()
}

func (m *Model) toggleSelected() {
	sel := m.Selected()
	if !sel.HasChildren() {
		return
	}
	m.expanded[sel.ID] = !m.expanded[sel.ID]
	m.refreshRows()
}

func (m *Model) expandSelected() {
	sel := m.Selected()
	if !sel.HasChildren() || m.query != "" {
		return
	}
	if !m.expanded[sel.ID] {
		m.expanded[sel.ID] = true
		m.refreshRows()
		return
	}
	m.moveCursor(1)
}

func (m *Model) collapseSelected() {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.query != "" {
		return
	}
	r := m.rows[m.cursor]
	if r.el.HasChildren() && m.expanded[r.el.ID] {
		m.expanded[r.el.ID] = false
		m.refreshRows()
		return
	}
	if r.parent != 0 {
		if idx := rowIndex(m.rows, r.parent); idx >= 0 {
			m.cursor = idx
			m.ensureVisible()
		}
	}
}

func (m Model) toggleOption(flag assettree.DisplayOption, label string) (tea.Model, tea.Cmd) {
	on := !m.option.Has(flag)
	m.option = m.option.With(flag, on)
	if m.query != "" {
		m.refreshRows()
	}
	m.setStatus(StatusInfo, label+" "+onOff(on))
	return m, clearStatusAfter(m.statusMessage)
}

// toggleMark flips the copy mark on the selected row and moves to the next one.
func (m *Model) toggleMark() {
	sel := m.Selected()
	if sel == nil {
		return
	}
	if m.marked == nil {
		m.marked = make(map[int]bool)
	}
	if m.marked[sel.ID] {
		delete(m.marked, sel.ID)
	} else {
		m.marked[sel.ID] = true
	}
	m.moveCursor(1)
}

// copyTargets returns the marked elements in tree order, or the selected row when
// nothing is marked.
func (m Model) copyTargets() []*assettree.Element {
	var out []*assettree.Element
	if len(m.marked) > 0 {
		for _, r := range m.roots {
			r.Walk(func(e *assettree.Element, _ int) bool {
				if m.marked[e.ID] {
					out = append(out, e)
				}
				return true
			})
		}
	}
	if len(out) == 0 {
		if sel := m.Selected(); sel != nil {
			out = append(out, sel)
		}
	}
	return out
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	targets := m.copyTargets()
	if len(targets) == 0 {
		return m, nil
	}
	text := strings.TrimSuffix(assettree.CopyText(targets, m.option), "\n")
	if err := m.copyText(text); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		m.err = err
		m.setStatus(StatusError, "Copy failed")
		return m, nil
	}
	if len(targets) == 1 {
		m.setStatus(StatusSuccess, "Copied "+text)
	} else {
		m.setStatus(StatusSuccess, fmt.Sprintf("Copied %d rows", len(targets)))
	}
	return m, clearStatusAfter(m.statusMessage)
}

// openSelected replaces the view with the asset the selected row points at.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	sel := m.Selected()
	if sel == nil || sel.AssetPath == "" {
		m.setStatus(StatusWarn, "No asset path on this row")
		return m, nil
	}

	target := inspectablePath(m.db.Abs(sel.AssetPath))
	if !m.db.Exists(target) {
		m.setStatus(StatusError, "Cannot open "+sel.AssetPath)
		return m, nil
	}
	if len(m.files) == 1 && m.files[0] == target {
		return m, nil
	}

	m.logger.Info("opening asset", "path", target)
	m.history = append(m.history, m.files)
	m.query = ""
	m.loading = true
	m.setStatus(StatusLoading, "Opening "+filepath.Base(target)+"…")
	return m, tea.Batch(m.loadTree([]string{target}, false), m.statusSpinner.Tick)
}

func (m Model) goBack() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		m.setStatus(StatusInfo, "No previous file")
		return m, clearStatusAfter(m.statusMessage)
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.query = ""
	m.loading = true
	m.setStatus(StatusLoading, "Loading…")
	return m, tea.Batch(m.loadTree(prev, false), m.statusSpinner.Tick)
}

// reloadTree refreshes the asset database and rebuilds the open files.
func (m Model) reloadTree() tea.Cmd {
	db, builder, files, logger := m.db, m.builder, m.files, m.logger
	return func() tea.Msg {
		if db != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := db.Refresh(ctx); err != nil {
				logger.Warn("asset database refresh failed", "error", err)
			}
		}
		roots, _ := builder.BuildFiles(1, files)
		return treeLoadedMsg{files: files, roots: roots, reload: true}
	}
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) pageSize() int {
	return ComputeLayout(m.width, m.height, m.searchOpen).TreeRows()
}

// ensureVisible scrolls so the cursor row is inside the tree region.
func (m *Model) ensureVisible() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if maxOffset := len(m.rows) - page; m.offset > maxOffset {
		m.offset = max(maxOffset, 0)
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) setStatus(level StatusLevel, message string) {
	m.statusLevel = level
	m.statusMessage = message
	if level != StatusError {
		m.err = nil
	}
}

func (m *Model) clearStatus() {
	m.statusLevel = StatusInfo
	m.statusMessage = ""
	m.err = nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// yamlMagic starts every Unity text-serialized asset.
var yamlMagic = []byte("%YAML")

// inspectablePath returns path when it is a YAML asset or folder, and otherwise its
// ".meta" file when one exists, so binary assets open as their import settings.
func inspectablePath(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || strings.HasSuffix(path, ".meta") {
		return path
	}

	f, err := os.Open(path)
	if err != nil {
		return path
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, len(yamlMagic))
	if _, err := io.ReadFull(f, head); err == nil && bytes.Equal(head, yamlMagic) {
		return path
	}
	if _, err := os.Stat(path + ".meta"); err == nil {
		return path + ".meta"
	}
	return path
}
