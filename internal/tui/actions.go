// pattern: Imperative Shell

package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"assettree/internal/assetdb"
	"assettree/internal/assettree"
	"assettree/internal/logging"
)

// maxLogBatch caps how many queued log entries are delivered in one message.
const maxLogBatch = 100

// statusClearDelay is how long transient success messages stay visible.
const statusClearDelay = 3 * time.Second

// treeLoadedMsg delivers a freshly built tree for files.
type treeLoadedMsg struct {
	files  []string
	roots  []*assettree.Element
	reload bool // keep expansion and cursor from the previous tree
}

// filesChangedMsg is sent when a watched file changes on disk.
type filesChangedMsg struct {
	files []string
	ch    chan []string
}

// logEntriesMsg delivers log entries from the logging channel.
type logEntriesMsg struct {
	entries []logging.Entry
}

// clearStatusMsg is sent after a timed delay to clear the status bar.
type clearStatusMsg struct {
	message string
}

// loadTree builds the trees for files off the UI goroutine.
func (m Model) loadTree(files []string, reload bool) tea.Cmd {
	builder := m.builder
	return func() tea.Msg {
		roots, _ := builder.BuildFiles(1, files)
		return treeLoadedMsg{files: files, roots: roots, reload: reload}
	}
}

// consumeLogEntries waits for the next log entry and drains whatever else is queued.
func consumeLogEntries(ch <-chan logging.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		entries := []logging.Entry{entry}
		for len(entries) < maxLogBatch {
			select {
			case e, ok := <-ch:
				if !ok {
					return logEntriesMsg{entries: entries}
				}
				entries = append(entries, e)
			default:
				return logEntriesMsg{entries: entries}
			}
		}
		return logEntriesMsg{entries: entries}
	}
}

// startWatch replaces the current watcher with one over m.files.
// Returns nil when watching is disabled. A watcher that cannot start is logged
// and closes its channel.
func (m *Model) startWatch() tea.Cmd {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
		m.changes = nil
	}
	if !m.cfg.Watch || len(m.files) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan []string, 1)
	m.watchCancel = cancel
	m.changes = ch

	files, logger := m.files, m.logger
	go func() {
		defer close(ch)
		err := assetdb.Watch(ctx, files, logger, func(changed []string) {
			select {
			case ch <- changed:
			default:
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("file watch unavailable", "error", err)
		}
	}()
	return waitForChange(ch)
}

// waitForChange blocks until the watcher reports a change or stops.
func waitForChange(ch chan []string) tea.Cmd {
	return func() tea.Msg {
		changed, ok := <-ch
		if !ok {
			return nil
		}
		return filesChangedMsg{files: changed, ch: ch}
	}
}

func clearStatusAfter(message string) tea.Cmd {
	return tea.Tick(statusClearDelay, func(time.Time) tea.Msg {
		return clearStatusMsg{message: message}
	})
}
