package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"assettree/internal/assetdb"
	"assettree/internal/assettree"
	"assettree/internal/config"
	"assettree/internal/logging"
	"assettree/internal/unityclass"
)

// StatusLevel selects how the status bar message is rendered.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusLoading
	StatusSuccess
	StatusWarn
	StatusError
)

// entrySource is implemented by log managers that expose their entry stream.
type entrySource interface {
	Entries() <-chan logging.Entry
}

// Model represents the TUI application state.
type Model struct {
	width     int
	height    int
	themeName string
	styles    *Styles

	cfg     *config.Config
	db      *assetdb.Database
	builder *assettree.Builder
	logger  *logging.ScopedLogger
	entries <-chan logging.Entry

	// Open files and the stack of previously open files.
	files   []string
	history [][]string

	roots    []*assettree.Element
	expanded map[int]bool
	marked   map[int]bool // rows picked for copying
	rows     []row
	cursor   int
	offset   int
	loading  bool

	option    assettree.DisplayOption
	showIcons bool

	searchOpen  bool
	searchInput textinput.Model
	query       string

	statusLevel   StatusLevel
	statusMessage string
	statusSpinner spinner.Model
	err           error

	lastCtrlCTime time.Time

	watchCancel context.CancelFunc
	changes     chan []string

	copyText func(string) error
}

// NewModel creates a TUI model showing files. db may be nil when no Unity project
// was found; GUIDs then stay unresolved.
func NewModel(cfg *config.Config, files []string, db *assetdb.Database, logs logging.LoggerProvider) Model {
	if cfg == nil {
		c := config.DefaultConfig()
		cfg = &c
	}

	logger := logging.NopLogger()
	builderLogger := logging.NopLogger()
	var entries <-chan logging.Entry
	if logs != nil {
		logger = logs.For("tui")
		builderLogger = logs.For("assettree")
		if src, ok := logs.(entrySource); ok {
			entries = src.Entries()
		}
	}

	builder := &assettree.Builder{
		Icons:   unityclass.Glyphs{},
		Classes: unityclass.Lookup{},
		Logger:  builderLogger,
	}
	if db != nil {
		builder.Assets = db
		builder.Icons = db
		builder.Classes = db
	}

	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "search"
	input.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	var opt assettree.DisplayOption
	opt = opt.With(assettree.ClassIDToClassName, cfg.Display.ClassNames)
	opt = opt.With(assettree.GUIDToAssetPath, cfg.Display.GUIDPaths)

	logger.Info("tui initialized", "files", len(files), "project", db != nil)

	return Model{
		themeName:     cfg.Theme,
		styles:        NewStyles(cfg.Theme),
		cfg:           cfg,
		db:            db,
		builder:       builder,
		logger:        logger,
		entries:       entries,
		files:         files,
		expanded:      make(map[int]bool),
		marked:        make(map[int]bool),
		option:        opt,
		showIcons:     cfg.Display.Icons,
		searchInput:   input,
		statusSpinner: sp,
		copyText:      clipboard.WriteAll,
	}
}

// Init returns the initial command to run.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadTree(m.files, false), m.statusSpinner.Tick}
	if m.entries != nil {
		cmds = append(cmds, consumeLogEntries(m.entries))
	}
	return tea.Batch(cmds...)
}

// Option returns the active display option.
func (m Model) Option() assettree.DisplayOption {
	return m.option
}

// Files returns the currently open files.
func (m Model) Files() []string {
	return m.files
}

// Selected returns the element under the cursor, or nil.
func (m Model) Selected() *assettree.Element {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].el
}

// Close stops the file watcher.
func (m Model) Close() {
	if m.watchCancel != nil {
		m.watchCancel()
	}
}
