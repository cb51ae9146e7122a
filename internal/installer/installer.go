// Package installer materializes third-party packages from source into the
// install prefix and sequences the whole provisioning run.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gookit/color"

	"github.com/pymode/pmdeps/internal/env"
	"github.com/pymode/pmdeps/internal/fetch"
	"github.com/pymode/pmdeps/internal/pkgs"
	"github.com/pymode/pmdeps/x/autotools"
)

// Installer provisions packages inside the current working directory, which
// is expected to be the build workspace.
type Installer struct {
	client *fetch.Client
	layout env.Layout
	out    io.Writer
}

// New returns an Installer writing all progress and tool output to out.
func New(client *fetch.Client, layout env.Layout, out io.Writer) *Installer {
	return &Installer{client: client, layout: layout, out: out}
}

// Install runs the full sequence for one package: environment sanitation,
// download, extract, configure, build, install, export, cleanup. Every step
// is a hard boundary: its error aborts the rest.
func (ins *Installer) Install(ctx context.Context, pkg pkgs.Package) error {
	// Stale locations from a previous install break the configure step,
	// so they are cleared before anything else happens.
	for _, key := range pkg.ClearEnv {
		if err := os.Unsetenv(key); err != nil {
			return fmt.Errorf("clearing %s: %w", key, err)
		}
	}

	ins.message("Downloading " + pkg.Name + " " + pkg.Version + "...")
	if err := ins.client.Download(ctx, pkg.URL, pkg.Archive); err != nil {
		return fmt.Errorf("download %s: %w", pkg.Name, err)
	}

	if err := ins.extract(ctx, pkg.Archive); err != nil {
		return fmt.Errorf("extract %s: %w", pkg.Archive, err)
	}

	ins.message("Compiling " + pkg.Name + "...")
	tool := autotools.New(pkg.SourceDir(), ins.layout.InstallDir, ins.out)
	if err := tool.Configure(ctx, pkg.ConfigureArgs...); err != nil {
		return fmt.Errorf("%s: %w", pkg.Name, err)
	}
	if err := tool.Build(ctx, pkg.BuildTargets...); err != nil {
		return fmt.Errorf("%s: %w", pkg.Name, err)
	}

	ins.message("Installing " + pkg.Name + "...")
	if err := tool.Install(ctx); err != nil {
		return fmt.Errorf("%s: %w", pkg.Name, err)
	}
	if pkg.TestAfterInstall {
		if err := tool.Test(ctx); err != nil {
			return fmt.Errorf("%s: %w", pkg.Name, err)
		}
	}

	if pkg.ExportEnv != "" {
		if err := os.Setenv(pkg.ExportEnv, ins.layout.InstallDir); err != nil {
			return fmt.Errorf("exporting %s: %w", pkg.ExportEnv, err)
		}
	}

	ins.message("Cleaning up working directory...")
	if err := os.RemoveAll(pkg.SourceDir()); err != nil {
		return err
	}
	return os.Remove(pkg.Archive)
}

// extract unpacks the archive into the current directory with the native
// tar tool, which is treated as an external collaborator like make.
func (ins *Installer) extract(ctx context.Context, archive string) error {
	cmd := exec.CommandContext(ctx, "tar", "xzf", archive)
	cmd.Stdout = ins.out
	cmd.Stderr = ins.out
	return cmd.Run()
}

func (ins *Installer) message(s string) {
	fmt.Fprintln(ins.out, color.Green.Sprint(s))
}
