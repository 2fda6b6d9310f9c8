// Package workspace manages the ephemeral scratch directory owned by one
// submission.
package workspace

import (
	"os"
	"path/filepath"
	"sync"

	pkgerrors "gauntlet/pkg/errors"

	"github.com/google/uuid"
)

// Workspace is a per-submission scratch directory. Close kills any child
// process registered against it, then removes the directory tree; it is safe
// to call from a deferred statement on every exit path.
type Workspace struct {
	dir string

	mu     sync.Mutex
	pids   []int
	closed bool
}

// Killer terminates the process group of a registered child. It is injected
// so the workspace stays portable; the sandbox engine supplies the real one.
type Killer func(pid int)

var killProcessGroup Killer = func(int) {}

// SetKiller installs the process-group killer used on Close. Called once at
// startup by the sandbox engine package.
func SetKiller(k Killer) {
	if k != nil {
		killProcessGroup = k
	}
}

// Acquire creates a fresh workspace directory with a randomized name under
// the OS temp root.
func Acquire() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), "gauntlet-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrapf(err, pkgerrors.InternalServerError, "create workspace failed")
	}
	return &Workspace{dir: dir}, nil
}

// Path returns the absolute path of the workspace directory.
func (w *Workspace) Path() string { return w.dir }

// Join returns a path inside the workspace.
func (w *Workspace) Join(name string) string { return filepath.Join(w.dir, name) }

// WriteFile writes a file inside the workspace.
func (w *Workspace) WriteFile(name string, data []byte) error {
	if err := os.WriteFile(w.Join(name), data, 0o644); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.InternalServerError, "write %s failed", name)
	}
	return nil
}

// Register records a child pid whose process group must be killed before the
// directory is removed.
func (w *Workspace) Register(pid int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pids = append(w.pids, pid)
}

// Unregister drops a reaped child.
func (w *Workspace) Unregister(pid int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, p := range w.pids {
		if p == pid {
			w.pids = append(w.pids[:i], w.pids[i+1:]...)
			return
		}
	}
}

// Close kills outstanding children and removes the directory tree. It is
// idempotent.
func (w *Workspace) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	pids := w.pids
	w.pids = nil
	w.mu.Unlock()

	for _, pid := range pids {
		killProcessGroup(pid)
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.InternalServerError, "remove workspace failed")
	}
	return nil
}
