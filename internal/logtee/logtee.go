// Package logtee duplicates output to the terminal and a persistent log
// file, so that everything a run prints is also captured in install.log.
package logtee

import (
	"io"
	"os"
)

// Writer forwards every write to the terminal first, then to the log file,
// synchronously and in order. It is handed to every component that prints.
type Writer struct {
	terminal io.Writer
	log      *os.File
}

// New removes any previous log at path, opens a fresh one in append mode and
// returns a Writer mirroring writes to terminal and the log. One log per run.
func New(path string, terminal io.Writer) (*Writer, error) {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{terminal: terminal, log: f}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.terminal.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := w.log.Write(p); err != nil {
		return n, err
	}
	return n, nil
}

// Close closes the log file. Closing is best effort: the process exiting
// without it leaves a complete log, since writes are unbuffered.
func (w *Writer) Close() error {
	return w.log.Close()
}
