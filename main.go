// pattern: Imperative Shell
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"assettree/internal/cli"
	"assettree/internal/config"
	"assettree/internal/logging"
	"assettree/internal/tui"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/assettree)")
	project := flag.StringP("project", "p", "", "Unity project root (default: discovered from the inspected file)")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		app := cli.BuildApp(version, cli.Env{})
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logManager, err := newLogManager(*configDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logManager.Close() }()

	env := cli.Env{
		Config:  cfg,
		Project: *project,
		Logs:    logManager,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	app := cli.BuildApp(version, env)
	if app.Execute(flag.Args()) {
		if err := runTUI(env, logManager, flag.Args()); err != nil {
			_ = logManager.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// newLogManager opens the rotating log file next to the config.
func newLogManager(configDir, level string) (*logging.Manager, error) {
	dir := configDir
	if dir == "" {
		dir = config.DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return logging.NewManager(logging.Config{
		FilePath:       filepath.Join(dir, "assettree.log"),
		MaxSizeMB:      10,
		MaxBackups:     3,
		MaxAgeDays:     7,
		ChannelBufSize: 1000,
		Level:          level,
	})
}

// runTUI launches the interactive tree view for files.
func runTUI(env cli.Env, logManager *logging.Manager, files []string) error {
	appLogger := logManager.For("app")
	appLogger.Info("application starting", "files", len(files))

	abs := make([]string, 0, len(files))
	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			p = f
		}
		abs = append(abs, p)
	}

	start := ""
	if len(abs) > 0 {
		start = abs[0]
	}
	db, err := env.OpenDatabase(context.Background(), start)
	if err != nil {
		// The tree still renders without GUID resolution.
		appLogger.Warn("asset database unavailable", "error", err)
		db = nil
	}

	model := tui.NewModel(&env.Config, abs, db, logManager)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	if err != nil {
		appLogger.Error("application exited with error", "error", err)
		return fmt.Errorf("running program: %w", err)
	}

	appLogger.Info("application stopped")
	return nil
}
