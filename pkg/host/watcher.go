package host

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// Soft cap on inotify watches; huge trees get partial coverage
	// rather than exhausting the kernel limit.
	watchedDirLimit = 4096

	// Bound on accumulated external changes between drains.
	pendingChangeCap = 500

	// Events for a path the host itself touched within this window are
	// treated as echoes of our own write, not outside edits.
	selfWriteWindow = 2 * time.Second
)

// Directories never watched. Mirrors the set the file-walking tools
// skip, so the watcher and the tools agree on what the workspace is.
var ignoredDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	".idea":        {},
	".vscode":      {},
	".venv":        {},
	"venv":         {},
	"node_modules": {},
	"__pycache__":  {},
	"dist":         {},
	"target":       {},
}

// Editor scratch files; reporting them as external changes is noise.
var noiseSuffixes = []string{"~", ".swp", ".swx", ".tmp"}

// DrainExternalChanges returns the workspace-relative paths modified
// outside the session since the last drain, sorted, and clears the
// accumulator.
func (h *LocalHost) DrainExternalChanges() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(h.pending))
	for p := range h.pending {
		out = append(out, filepath.ToSlash(p))
	}
	clear(h.pending)
	sort.Strings(out)
	return out
}

// addWatchTree watches dir and its non-ignored subdirectories.
func (h *LocalHost) addWatchTree(dir string) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if _, ok := ignoredDirs[d.Name()]; ok && p != dir {
			return filepath.SkipDir
		}
		if h.watchedDirs >= watchedDirLimit {
			return filepath.SkipAll
		}
		if err := h.watcher.Add(p); err != nil {
			h.logger.Warn("cannot watch directory", "path", p, "error", err)
			return nil
		}
		h.watchedDirs++
		return nil
	})
}

func (h *LocalHost) watchLoop() {
	defer close(h.done)
	for {
		select {
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			h.handleFSEvent(ev)
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn("workspace watcher error", "error", err)
		}
	}
}

func (h *LocalHost) handleFSEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	rel := h.AsRelativePath(ev.Name)
	if rel == "." || filepath.IsAbs(rel) {
		return
	}
	for _, seg := range strings.Split(rel, "/") {
		if _, ok := ignoredDirs[seg]; ok {
			return
		}
	}
	for _, suffix := range noiseSuffixes {
		if strings.HasSuffix(rel, suffix) {
			return
		}
	}

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			h.addWatchTree(ev.Name)
			return
		}
	}

	if h.isSelfWrite(rel) {
		return
	}
	h.recordExternal(rel)
}

// noteSelfWrite marks rel as touched by the host so the watcher can
// discount the resulting events. A recorded directory covers its
// children, which makes one entry enough for a recursive delete.
func (h *LocalHost) noteSelfWrite(rel string) {
	rel = filepath.ToSlash(rel)
	h.mu.Lock()
	h.selfWrites[rel] = time.Now()
	h.mu.Unlock()
}

func (h *LocalHost) isSelfWrite(rel string) bool {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	hit := false
	for p, at := range h.selfWrites {
		if now.Sub(at) > selfWriteWindow {
			delete(h.selfWrites, p)
			continue
		}
		if rel == p || strings.HasPrefix(rel, p+"/") {
			hit = true
		}
	}
	return hit
}

func (h *LocalHost) recordExternal(rel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.pending) >= pendingChangeCap {
		return
	}
	h.pending[rel] = struct{}{}
}
