// Package host implements the workspace the agent operates on.
// LocalHost backs agent.HostEnvironment with a directory on the local
// filesystem: path-contained file access, shell execution, an fsnotify
// watcher for edits made outside the session, and a pluggable
// diagnostics source.
package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// Files larger than this are refused rather than loaded into memory.
const maxReadFileBytes = 16 << 20

// LocalHost is a HostEnvironment rooted at a workspace directory.
// Safe for concurrent use; parallel tool batches share one instance.
type LocalHost struct {
	root   string
	logger *slog.Logger

	mu         sync.Mutex
	activeFile string
	selfWrites map[string]time.Time
	pending    map[string]struct{}

	watcher     *fsnotify.Watcher
	watchedDirs int
	done        chan struct{}

	diagMu sync.RWMutex
	diags  DiagnosticsSource
}

var (
	_ agent.HostEnvironment      = (*LocalHost)(nil)
	_ agent.ExternalChangeSource = (*LocalHost)(nil)
)

// NewLocalHost opens a workspace rooted at dir. The directory must
// exist. The external-change watcher is best-effort: when the platform
// watcher cannot be created the host still works, it just never
// reports outside edits.
func NewLocalHost(dir string) (*LocalHost, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}

	h := &LocalHost{
		root:       abs,
		logger:     slog.Default().With("component", "host"),
		selfWrites: make(map[string]time.Time),
		pending:    make(map[string]struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		h.logger.Warn("workspace watcher unavailable", "root", abs, "error", err)
		return h, nil
	}
	h.watcher = watcher
	h.done = make(chan struct{})
	h.addWatchTree(abs)
	go h.watchLoop()

	return h, nil
}

// Close stops the workspace watcher. The host's file and exec methods
// remain usable afterwards.
func (h *LocalHost) Close() error {
	if h.watcher == nil {
		return nil
	}
	err := h.watcher.Close()
	<-h.done
	return err
}

// WorkspaceRoot returns the absolute workspace directory.
func (h *LocalHost) WorkspaceRoot() string { return h.root }

// AsRelativePath renders an absolute path relative to the workspace
// root. Paths outside the workspace, and already-relative paths, are
// returned unchanged.
func (h *LocalHost) AsRelativePath(p string) string {
	if !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(h.root, filepath.Clean(p))
	if err != nil || escapesRoot(rel) {
		return p
	}
	return filepath.ToSlash(rel)
}

// ActiveEditorPath returns the file the user last focused, or "".
func (h *LocalHost) ActiveEditorPath() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activeFile
}

// SetActiveEditorPath records the user's focused file for prompt
// context. An empty string clears it.
func (h *LocalHost) SetActiveEditorPath(p string) {
	h.mu.Lock()
	h.activeFile = p
	h.mu.Unlock()
}

func (h *LocalHost) ReadFile(_ context.Context, p string) (string, error) {
	abs, rel, err := h.resolve(p)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", relPathErr(err, rel)
	}
	if !info.IsDir() && info.Size() > maxReadFileBytes {
		return "", fmt.Errorf("%s is too large to read (%d bytes)", filepath.ToSlash(rel), info.Size())
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", relPathErr(err, rel)
	}
	return string(data), nil
}

func (h *LocalHost) WriteFile(_ context.Context, p string, content string) error {
	abs, rel, err := h.resolve(p)
	if err != nil {
		return err
	}
	h.noteSelfWrite(rel)
	if dir := filepath.Dir(abs); dir != h.root {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return relPathErr(err, filepath.Dir(rel))
		}
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return relPathErr(err, rel)
	}
	return nil
}

func (h *LocalHost) Stat(_ context.Context, p string) (*agent.FileStat, error) {
	abs, rel, err := h.resolve(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, relPathErr(err, rel)
	}
	return &agent.FileStat{
		Size:    info.Size(),
		MtimeMs: info.ModTime().UnixMilli(),
		IsDir:   info.IsDir(),
	}, nil
}

func (h *LocalHost) ListDir(_ context.Context, p string) ([]agent.DirEntry, error) {
	abs, rel, err := h.resolve(p)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, relPathErr(err, rel)
	}
	out := make([]agent.DirEntry, 0, len(entries))
	for _, e := range entries {
		de := agent.DirEntry{Name: e.Name(), IsDir: e.IsDir()}
		if !de.IsDir {
			if info, err := e.Info(); err == nil {
				de.Size = info.Size()
			}
		}
		out = append(out, de)
	}
	return out, nil
}

// DeletePath removes a file, or a directory and its contents. The
// workspace root itself cannot be deleted.
func (h *LocalHost) DeletePath(_ context.Context, p string) error {
	abs, rel, err := h.resolve(p)
	if err != nil {
		return err
	}
	if rel == "." {
		return errors.New("refusing to delete the workspace root")
	}
	if _, err := os.Lstat(abs); err != nil {
		return relPathErr(err, rel)
	}
	h.noteSelfWrite(rel)
	if err := os.RemoveAll(abs); err != nil {
		return relPathErr(err, rel)
	}
	return nil
}

// resolve maps a tool-supplied path to an absolute path under the
// workspace root. Relative paths must stay inside the root; absolute
// paths are accepted only when the root contains them. Containment is
// lexical: symlink targets are not chased.
func (h *LocalHost) resolve(p string) (abs, rel string, err error) {
	p = strings.TrimSpace(p)
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(h.root, filepath.Clean(p))
		if err != nil || escapesRoot(rel) {
			return "", "", fmt.Errorf("path %q is outside the workspace", p)
		}
		return filepath.Join(h.root, rel), rel, nil
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if clean == "." {
		return h.root, ".", nil
	}
	if !filepath.IsLocal(clean) {
		return "", "", fmt.Errorf("path %q is outside the workspace", p)
	}
	return filepath.Join(h.root, clean), clean, nil
}

func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// relPathErr rewrites the path inside an os error to the
// workspace-relative form so absolute host paths never reach the
// model. The error chain is preserved for errors.Is checks.
func relPathErr(err error, rel string) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		pe.Path = filepath.ToSlash(rel)
	}
	return err
}
