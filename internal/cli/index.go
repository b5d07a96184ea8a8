// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"

	"assettree/internal/assetdb"
)

// RegisterIndexCommands registers the index command group commands.
func RegisterIndexCommands(group *Group, env Env) {
	group.AddCommand(&Command{
		Name:    "refresh",
		Summary: "Rescan .meta files and update the cached index",
		Usage:   "Usage: assettree index refresh",
		Run: func(args []string) error {
			db, err := openProject(env)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(env.stdout(), "Indexed %d assets in %s\n", db.Len(), db.Root())
			return err
		},
	})

	group.AddCommand(&Command{
		Name:    "stats",
		Summary: "Show the project root, cache file and asset count",
		Usage:   "Usage: assettree index stats",
		Run: func(args []string) error {
			db, err := openProject(env)
			if err != nil {
				return err
			}
			cacheFile := assetdb.IndexPath(env.Config.ResolveCacheDir(), db.Root())
			w := env.stdout()
			_, _ = fmt.Fprintf(w, "root:   %s\n", db.Root())
			_, _ = fmt.Fprintf(w, "cache:  %s\n", cacheFile)
			_, err = fmt.Fprintf(w, "assets: %d\n", db.Len())
			return err
		},
	})

	group.AddCommand(&Command{
		Name:    "path",
		Summary: "Print the GUID of a project-relative asset path",
		Usage:   "Usage: assettree index path <asset-path>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return errors.New("usage: assettree index path <asset-path>")
			}
			db, err := openProject(env)
			if err != nil {
				return err
			}
			guid := db.GUID(args[0])
			if guid == "" {
				return fmt.Errorf("%s is not in the index", args[0])
			}
			_, err = fmt.Fprintln(env.stdout(), guid)
			return err
		},
	})
}

// openProject indexes the project for the working directory, failing outside one.
func openProject(env Env) (*assetdb.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	db, err := env.OpenDatabase(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("index project: %w", err)
	}
	if db == nil {
		return nil, errors.New("not inside a Unity project (use --project)")
	}
	return db, nil
}
