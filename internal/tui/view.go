// pattern: Imperative Shell

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"assettree/internal/assettree"
)

// View renders the TUI.
func (m Model) View() string {
	layout := ComputeLayout(m.width, m.height, m.searchOpen)

	parts := []string{
		m.renderHeader(layout.Header.Width),
		m.renderTree(layout),
	}
	if m.searchOpen {
		parts = append(parts, m.searchInput.View())
	}
	statusBar := lipgloss.NewStyle().Width(layout.StatusBar.Width).Render(m.renderStatusBar(layout.StatusBar.Width))
	parts = append(parts, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title line and the open file line.
func (m Model) renderHeader(width int) string {
	title := m.styles.TitleStyle().Render("Asset Tree")

	var flags []string
	if m.option.Has(assettree.ClassIDToClassName) {
		flags = append(flags, "class names")
	}
	if m.option.Has(assettree.GUIDToAssetPath) {
		flags = append(flags, "guid paths")
	}
	if m.showIcons {
		flags = append(flags, "icons")
	}
	if len(flags) > 0 {
		title += m.styles.HelpStyle().Render("  [" + strings.Join(flags, ", ") + "]")
	}

	file := m.fileLabel()
	if len(m.history) > 0 {
		file += fmt.Sprintf("  (%d back)", len(m.history))
	}
	subtitle := m.styles.SubtitleStyle().Render(file)

	return truncate(title, width) + "\n" + truncate(subtitle, width)
}

func (m Model) fileLabel() string {
	switch len(m.files) {
	case 0:
		return "no file"
	case 1:
		if m.db != nil {
			if rel, err := filepath.Rel(m.db.Root(), m.files[0]); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
		return m.files[0]
	default:
		return fmt.Sprintf("%d files", len(m.files))
	}
}

// renderTree renders the visible window of rows under a panel header.
func (m Model) renderTree(layout Layout) string {
	headerText := " Tree"
	if m.query != "" {
		headerText = fmt.Sprintf(" Filter: %s (%d)", m.query, m.matchCount())
	}
	header := m.styles.PanelHeaderStyle().Width(layout.Tree.Width).Render(truncate(headerText, layout.Tree.Width))

	var body string
	switch {
	case m.loading && len(m.rows) == 0:
		body = m.styles.InfoStyle().Render("Loading…")
	case len(m.rows) == 0 && m.query != "":
		body = m.styles.InfoStyle().Render("No matches.")
	case len(m.rows) == 0:
		body = m.styles.InfoStyle().Render("Nothing to show. Pass an asset file to inspect.")
	default:
		page := layout.TreeRows()
		end := min(m.offset+page, len(m.rows))
		lines := make([]string, 0, end-m.offset)
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, layout.Tree.Width))
		}
		body = strings.Join(lines, "\n")
	}

	body = lipgloss.NewStyle().
		Width(layout.Tree.Width).
		Height(layout.TreeRows()).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderRow renders one tree row: indentation, expander, optional icon and label.
func (m Model) renderRow(r row, selected bool, width int) string {
	indent := strings.Repeat("  ", r.depth)

	expander := "  "
	if r.el.HasChildren() {
		if m.query != "" || m.expanded[r.el.ID] {
			expander = "▾ "
		} else {
			expander = "▸ "
		}
	}

	label := rowText(r.el, m.option, m.showIcons)
	marked := m.marked[r.el.ID]
	if marked {
		label = "+ " + label
	}
	plain := truncate(indent+expander+label, width)

	if selected {
		return m.styles.SelectedRowStyle().Render(plain)
	}
	switch {
	case marked:
		return m.styles.AccentStyle().Render(plain)
	case r.match:
		return m.styles.MatchStyle().Render(plain)
	case r.el.IsObject():
		return m.styles.ObjectRowStyle().Render(plain)
	}
	return m.styles.InfoStyle().Render(plain)
}

// rowText is the row label with its icon glyph when icons are shown.
func rowText(e *assettree.Element, opt assettree.DisplayOption, icons bool) string {
	label := e.DisplayName(opt)
	if icons && e.Icon != "" {
		return e.Icon + " " + label
	}
	return label
}

// renderStatusBar renders the status bar with operation feedback and help.
func (m Model) renderStatusBar(width int) string {
	var statusIcon string
	var messageStyle lipgloss.Style

	switch m.statusLevel {
	case StatusLoading:
		statusIcon = m.statusSpinner.View()
		messageStyle = m.styles.InfoStatusStyle()
	case StatusSuccess:
		statusIcon = m.styles.SuccessStyle().Render("✓")
		messageStyle = m.styles.SuccessStyle()
	case StatusWarn:
		statusIcon = m.styles.WarnStyle().Render("!")
		messageStyle = m.styles.WarnStyle()
	case StatusError:
		statusIcon = m.styles.ErrorStyle().Render("✗")
		messageStyle = m.styles.ErrorStyle()
	default: // StatusInfo
		messageStyle = m.styles.InfoStatusStyle()
	}

	var statusText string
	if statusIcon != "" {
		statusText = statusIcon + " " + messageStyle.Render(m.statusMessage)
	} else if m.statusMessage != "" {
		statusText = messageStyle.Render(m.statusMessage)
	}

	if m.statusLevel == StatusError && m.err != nil {
		statusText += m.styles.HelpStyle().Render(" (" + m.err.Error() + ", esc to clear)")
	}

	help := m.renderContextualHelp()

	statusWidth := lipgloss.Width(statusText)
	helpWidth := lipgloss.Width(help)
	if statusWidth+helpWidth+2 > width {
		// Status wins over help on narrow terminals.
		return truncate(statusText, width)
	}

	spacer := strings.Repeat(" ", width-statusWidth-helpWidth-2)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, statusText, spacer, help)
}

// renderContextualHelp returns help text for the current mode.
func (m Model) renderContextualHelp() string {
	var help string
	switch {
	case m.searchOpen:
		help = "enter: keep filter • esc: cancel • ↑/↓: navigate"
	case m.query != "":
		help = "enter: jump to row • esc: clear filter • /: edit"
	case len(m.rows) == 0:
		help = "q: quit"
	default:
		help = "↑/↓: navigate • ←/→: fold • /: search • c/g/i: names/paths/icons • m/y: mark/copy • o: open"
		if len(m.history) > 0 {
			help += " • ⌫: back"
		}
	}
	return m.styles.HelpStyle().Render(help)
}

// truncate cuts s to width terminal cells, keeping ANSI sequences intact.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
