// Package manifest records where the installed dependencies live, for
// pyMode's own build to consume.
package manifest

import (
	"os"
	"strings"
)

// Write records installDir at path, replacing any previous content. The
// format is plain KEY=VALUE lines parsed verbatim downstream, so installDir
// is written exactly as resolved, without normalization. PETSC_ARCH is empty
// on purpose: prefix installs carry no arch-specific subtree.
func Write(path, installDir string) error {
	var b strings.Builder
	b.WriteString("PETSC_DIR=" + installDir + "\n")
	b.WriteString("PETSC_ARCH=\n")
	b.WriteString("SLEPC_DIR=" + installDir + "\n")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
