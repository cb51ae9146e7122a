// Package env resolves the filesystem layout pmdeps works with: the install
// prefix and its subdirectories, the manifest path and the well-known names
// of the log file and the build workspace.
package env

import (
	"os"
	"path/filepath"
)

const (
	// LogFile is the name of the install log, created in the directory
	// pmdeps is invoked from.
	LogFile = "install.log"

	// WorkDirName is the name of the transient build workspace, created
	// under the directory pmdeps is invoked from.
	WorkDirName = "build"

	manifestFile = ".pymode_deps"
)

// Layout is the resolved installation tree. InstallDir is kept verbatim as
// given (or as defaulted): the manifest must echo it back byte for byte.
type Layout struct {
	InstallDir string
	IncludeDir string
	LibDir     string
}

// DefaultPrefix returns the default install prefix, <home>/.pymode/.
func DefaultPrefix() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home + "/.pymode/", nil
}

// ManifestPath returns the path of the dependency manifest, <home>/.pymode_deps.
func ManifestPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, manifestFile), nil
}

// Resolve derives the installation layout from prefix and creates its
// directories. An empty prefix selects DefaultPrefix. Creation is
// idempotent: resolving an existing tree is a no-op.
//
// The prefix is not validated beyond directory creation; a prefix that is
// not writable surfaces here, but nothing checks that it is absolute.
func Resolve(prefix string) (Layout, error) {
	if prefix == "" {
		p, err := DefaultPrefix()
		if err != nil {
			return Layout{}, err
		}
		prefix = p
	}
	l := Layout{
		InstallDir: prefix,
		IncludeDir: filepath.Join(prefix, "include"),
		LibDir:     filepath.Join(prefix, "lib"),
	}
	for _, dir := range []string{l.InstallDir, l.IncludeDir, l.LibDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Layout{}, err
		}
	}
	return l, nil
}
