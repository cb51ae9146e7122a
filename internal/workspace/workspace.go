// Package workspace manages the transient build directory that holds
// downloaded archives and extracted source trees during installation.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Workspace is an entered build directory. Whatever happens inside it, Leave
// returns the process to the directory it was in when Enter was called.
type Workspace struct {
	startDir string
	dir      string
	lock     *os.File
}

// Enter creates dir if needed, takes an exclusive lock on it so concurrent
// runs cannot interleave, and makes it the working directory.
func Enter(dir string) (*Workspace, error) {
	startDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	lock, err := acquireLock(filepath.Join(abs, ".lock"))
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(abs); err != nil {
		lock.Close()
		return nil, err
	}
	return &Workspace{startDir: startDir, dir: abs, lock: lock}, nil
}

// StartDir returns the working directory captured when the workspace was
// entered.
func (w *Workspace) StartDir() string {
	return w.startDir
}

// Leave restores the start directory and deletes the workspace tree. It runs
// on success and failure paths alike and tolerates the tree already being
// gone.
func (w *Workspace) Leave() error {
	if err := os.Chdir(w.startDir); err != nil {
		return err
	}
	if w.lock != nil {
		unix.Flock(int(w.lock.Fd()), unix.LOCK_UN)
		w.lock.Close()
		w.lock = nil
	}
	if _, err := os.Stat(w.dir); err != nil {
		return nil
	}
	return os.RemoveAll(w.dir)
}

func acquireLock(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return f, nil
}
