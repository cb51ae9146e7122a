// Package autotools wraps the classic configure/make/make-install workflow.
package autotools

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// AutoTools drives Autotools-style builds of one extracted source tree.
// Every invoked tool writes to the injected output writer, and a non-zero
// exit from any tool is returned as an error.
type AutoTools struct {
	sourceDir  string
	installDir string
	env        map[string]string
	out        io.Writer
}

// New returns a ready-to-use AutoTools rooted at sourceDir. installDir, when
// non-empty, becomes the --prefix of the configure step.
func New(sourceDir, installDir string, out io.Writer) *AutoTools {
	return &AutoTools{
		sourceDir:  sourceDir,
		installDir: installDir,
		env:        make(map[string]string),
		out:        out,
	}
}

// Env sets key=value for every command spawned later.
func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
}

// Configure runs ./configure inside the source directory.
// --prefix is prepended automatically when installDir is set; extra flags
// are appended after it.
func (a *AutoTools) Configure(ctx context.Context, args ...string) error {
	flags := make([]string, 0, 1+len(args))
	if a.installDir != "" {
		flags = append(flags, "--prefix="+a.installDir)
	}
	return a.run(ctx, "./configure", append(flags, args...))
}

// Build runs "make" with the given targets.
func (a *AutoTools) Build(ctx context.Context, targets ...string) error {
	return a.run(ctx, "make", targets)
}

// Install runs "make install".
func (a *AutoTools) Install(ctx context.Context) error {
	return a.run(ctx, "make", []string{"install"})
}

// Test runs "make test".
func (a *AutoTools) Test(ctx context.Context) error {
	return a.run(ctx, "make", []string{"test"})
}

func (a *AutoTools) run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = a.sourceDir
	cmd.Stdout = a.out
	cmd.Stderr = a.out
	if len(a.env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), a.env)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.TrimSpace(name+" "+strings.Join(args, " ")), err)
	}
	return nil
}

// mergeEnv returns base with every key in overrides replaced or appended.
func mergeEnv(base []string, overrides map[string]string) []string {
	idx := make(map[string]int, len(base))
	for i, kv := range base {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	for k, v := range overrides {
		if i, ok := idx[k]; ok {
			base[i] = k + "=" + v
		} else {
			base = append(base, k+"="+v)
		}
	}
	return base
}
