// pattern: Imperative Shell
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"assettree/internal/assetdb"
	"assettree/internal/assettree"
	"assettree/internal/config"
	"assettree/internal/logging"
	"assettree/internal/unityclass"
)

// Env carries the resolved configuration and output streams shared by commands.
type Env struct {
	Config  config.Config
	Project string // --project override; wins over config and discovery
	Logs    logging.LoggerProvider
	Stdout  io.Writer
	Stderr  io.Writer
}

func (e Env) logger(scope string) *logging.ScopedLogger {
	if e.Logs == nil {
		return logging.NopLogger()
	}
	return e.Logs.For(scope)
}

// ProjectRoot resolves the Unity project for start: the --project flag, then
// project_root from config, then the nearest ancestor of start that is a project.
func (e Env) ProjectRoot(start string) (string, bool) {
	if e.Project != "" {
		return absPath(e.Config.ResolvePath(e.Project)), true
	}
	if e.Config.ProjectRoot != "" {
		return absPath(e.Config.ResolvePath(e.Config.ProjectRoot)), true
	}
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		start = wd
	}
	return assetdb.FindProjectRoot(start)
}

// OpenDatabase indexes the project that contains start. It returns nil and no
// error when start is not inside a Unity project.
func (e Env) OpenDatabase(ctx context.Context, start string) (*assetdb.Database, error) {
	root, ok := e.ProjectRoot(start)
	if !ok {
		e.logger("assetdb").Debug("no unity project found", "start", start)
		return nil, nil
	}
	return assetdb.Open(ctx, root, e.Config.ResolveCacheDir(), e.logger("assetdb"))
}

// Builder returns a tree builder backed by db, or by the built-in class tables
// when db is nil.
func (e Env) Builder(db *assetdb.Database) *assettree.Builder {
	b := &assettree.Builder{
		Icons:   unityclass.Glyphs{},
		Classes: unityclass.Lookup{},
		Logger:  e.logger("assettree"),
	}
	if db != nil {
		b.Assets = db
		b.Icons = db
		b.Classes = db
	}
	return b
}

func (e Env) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e Env) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
