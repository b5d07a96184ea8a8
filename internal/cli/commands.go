// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"assettree/internal/assettree"
)

// indexTimeout bounds a full project scan from the command line.
const indexTimeout = 5 * time.Minute

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, env Env) *App {
	app := NewApp(version)
	if env.Stderr != nil {
		app.stderr = env.Stderr
	}

	app.AddCommand(&Command{
		Name:    "dump",
		Summary: "Print the element tree of asset files",
		Usage:   "Usage: assettree dump [--class-names] [--guid-paths] [--icons] <file>...",
		Run: func(args []string) error {
			return runDump(env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "get",
		Summary: "Print the value at a slash-separated path inside an object",
		Usage:   "Usage: assettree get [--icon] <file> <object-index> <path>",
		Run: func(args []string) error {
			return runGet(env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "guid",
		Summary: "Resolve an asset GUID to its project path",
		Usage:   "Usage: assettree guid <guid>",
		Run: func(args []string) error {
			return runGUID(env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: assettree version",
		Run: func(args []string) error {
			_, err := fmt.Fprintln(env.stdout(), version)
			return err
		},
	})

	indexGroup := app.AddGroup("index", "Manage the project GUID index")
	RegisterIndexCommands(indexGroup, env)

	return app
}

func runDump(env Env, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(env.stderr())
	classNames := fs.Bool("class-names", env.Config.Display.ClassNames, "show class names instead of class IDs in object headers")
	guidPaths := fs.Bool("guid-paths", env.Config.Display.GUIDPaths, "show asset paths instead of GUIDs")
	icons := fs.Bool("icons", false, "prefix rows with icon glyphs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("usage: assettree dump <file>...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	db, err := env.OpenDatabase(ctx, files[0])
	if err != nil {
		return fmt.Errorf("index project: %w", err)
	}

	opt := assettree.Default.
		With(assettree.ClassIDToClassName, *classNames).
		With(assettree.GUIDToAssetPath, *guidPaths)

	roots, _ := env.Builder(db).BuildFiles(1, files)
	return assettree.Render(env.stdout(), roots, opt, *icons)
}

func runGet(env Env, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(env.stderr())
	icon := fs.Bool("icon", false, "print the icon reference instead of the value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 3 {
		return errors.New("usage: assettree get <file> <object-index> <path>")
	}
	file, indexArg, path := rest[0], rest[1], rest[2]

	index, err := strconv.Atoi(indexArg)
	if err != nil || index < 0 {
		return fmt.Errorf("object index must be a non-negative integer, got %q", indexArg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	db, err := env.OpenDatabase(ctx, file)
	if err != nil {
		return fmt.Errorf("index project: %w", err)
	}

	roots, _ := env.Builder(db).BuildFile(1, file)
	objects := roots[0].Children
	if index >= len(objects) {
		return fmt.Errorf("%s has %d objects, index %d out of range", file, len(objects), index)
	}

	found := assettree.Find(objects[index], path)
	if found == nil {
		return fmt.Errorf("path %q not found in object %d", path, index)
	}
	out := found.Value
	if *icon {
		out = found.Icon
	}
	_, err = fmt.Fprintln(env.stdout(), out)
	return err
}

func runGUID(env Env, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: assettree guid <guid>")
	}

	db, err := openProject(env)
	if err != nil {
		return err
	}

	path := db.AssetPath(args[0])
	if path == "" {
		return fmt.Errorf("guid %s not found in %s", args[0], db.Root())
	}
	_, err = fmt.Fprintln(env.stdout(), path)
	return err
}
