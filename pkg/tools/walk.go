package tools

import (
	"context"
	"errors"
	"path"
	"sort"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// Directories never descended into during workspace walks. Dependency
// and build trees dominate file counts without ever being what the
// model is looking for.
var skippedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	".venv":        true,
	"venv":         true,
	"node_modules": true,
	"__pycache__":  true,
	"dist":         true,
	"target":       true,
}

// maxWalkFiles bounds a single walk so a pathological workspace cannot
// stall an iteration.
const maxWalkFiles = 50_000

// errStopWalk is returned by a walk callback to end the walk early
// without reporting an error.
var errStopWalk = errors.New("stop walk")

// walkFiles visits every non-skipped regular file under start
// (workspace-relative; "" means the root), depth-first in sorted
// order, calling fn with the relative path and entry metadata.
func walkFiles(ctx context.Context, host agent.HostEnvironment, start string, fn func(rel string, entry agent.DirEntry) error) error {
	visited := 0
	var walk func(dir string) error
	walk = func(dir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := host.ListDir(ctx, dir)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		for _, entry := range entries {
			rel := path.Join(dir, entry.Name)
			if entry.IsDir {
				if skippedDirs[entry.Name] {
					continue
				}
				if err := walk(rel); err != nil {
					return err
				}
				continue
			}
			visited++
			if visited > maxWalkFiles {
				return errStopWalk
			}
			if err := fn(rel, entry); err != nil {
				return err
			}
		}
		return nil
	}

	err := walk(path.Clean(start))
	if err == errStopWalk {
		return nil
	}
	return err
}

// cleanRel normalizes a model-supplied path argument: empty and "."
// both mean the workspace root.
func cleanRel(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(p)
}
