// pattern: Functional Core
package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// Group represents a group of related commands.
type Group struct {
	Name     string
	Summary  string
	Commands map[string]*Command
}

// App represents the top-level CLI application with groups and ungrouped commands.
type App struct {
	groups   map[string]*Group
	commands map[string]*Command
	version  string

	stderr io.Writer
	exit   func(code int)
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string) *App {
	return &App{
		groups:   make(map[string]*Group),
		commands: make(map[string]*Command),
		version:  version,
		stderr:   os.Stderr,
		exit:     os.Exit,
	}
}

// AddGroup creates and registers a new command group.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{
		Name:     name,
		Summary:  summary,
		Commands: make(map[string]*Command),
	}
	a.groups[name] = g
	return g
}

// AddCommand registers an ungrouped (top-level) command.
func (a *App) AddCommand(cmd *Command) {
	a.commands[cmd.Name] = cmd
}

// AddCommand registers a command in the group.
func (g *Group) AddCommand(cmd *Command) {
	g.Commands[cmd.Name] = cmd
}

// Execute dispatches the CLI arguments to the appropriate command.
// Returns true if the TUI should be launched: with no arguments, or when the first
// argument names an existing file rather than a command.
func (a *App) Execute(args []string) bool {
	if len(args) == 0 {
		return true
	}

	name := args[0]

	if cmd, ok := a.commands[name]; ok {
		a.run(cmd, args[1:])
		return false
	}

	if group, ok := a.groups[name]; ok {
		if len(args) < 2 || args[1] == "help" || args[1] == "--help" || args[1] == "-h" {
			group.PrintHelp(a.stderr)
			return false
		}
		if cmd, ok := group.Commands[args[1]]; ok {
			a.run(cmd, args[2:])
			return false
		}
		group.PrintHelp(a.stderr)
		a.exit(1)
		return false
	}

	if name == "help" {
		a.PrintHelp(a.stderr)
		return false
	}

	if _, err := os.Stat(name); err == nil {
		return true
	}

	_, _ = fmt.Fprintf(a.stderr, "unknown command or file: %s\n\n", name)
	a.PrintHelp(a.stderr)
	a.exit(1)
	return false
}

// run executes cmd, printing its usage for help flags and its error on failure.
func (a *App) run(cmd *Command, args []string) {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			_, _ = fmt.Fprintf(a.stderr, "%s\n", cmd.Usage)
			return
		}
	}
	if err := cmd.Run(args); err != nil {
		_, _ = fmt.Fprintf(a.stderr, "error: %v\n", err)
		a.exit(1)
	}
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: assettree [options] <file>...\n")
	_, _ = fmt.Fprintf(w, "       assettree [options] <command> [args]\n\n")
	_, _ = fmt.Fprintf(w, "Commands:\n")

	for _, name := range slices.Sorted(maps.Keys(a.commands)) {
		cmd := a.commands[name]
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", "<file>...", "Inspect asset files in the interactive TUI")

	if len(a.groups) > 0 {
		_, _ = fmt.Fprintf(w, "\nCommand Groups:\n")
		for _, name := range slices.Sorted(maps.Keys(a.groups)) {
			group := a.groups[name]
			_, _ = fmt.Fprintf(w, "  %-10s %s\n", group.Name, group.Summary)
		}
		_, _ = fmt.Fprintf(w, "\nUse \"assettree <group> help\" for group details.\n")
	}

	_, _ = fmt.Fprintf(w, "\nOptions:\n")
}

// PrintHelp prints help for a specific group.
func (g *Group) PrintHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: assettree %s <command>\n\n", g.Name)
	_, _ = fmt.Fprintf(w, "Commands:\n")
	for _, name := range slices.Sorted(maps.Keys(g.Commands)) {
		cmd := g.Commands[name]
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	_, _ = fmt.Fprintf(w, "\nUse \"assettree %s <command> --help\" for command details.\n", g.Name)
}
