package installer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"

	"github.com/pymode/pmdeps/internal/env"
	"github.com/pymode/pmdeps/internal/fetch"
	"github.com/pymode/pmdeps/internal/logtee"
	"github.com/pymode/pmdeps/internal/manifest"
	"github.com/pymode/pmdeps/internal/pkgs"
	"github.com/pymode/pmdeps/internal/workspace"
)

// Options configures a provisioning run.
type Options struct {
	// Prefix is the install prefix; empty selects env.DefaultPrefix.
	Prefix string

	// Terminal receives the mirrored output; defaults to os.Stdout.
	Terminal io.Writer

	// Pipeline overrides the packages to install. Nil selects the
	// default PETSc-then-SLEPc pipeline.
	Pipeline []pkgs.Package
}

// Run provisions every package in the pipeline and records the result in
// the manifest. On any failure the error is reported to the log sink, the
// working directory is restored to its value at entry and the build
// workspace is removed before the error is returned; the completion message
// prints only when everything succeeded.
func Run(ctx context.Context, opts Options) error {
	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stdout
	}

	pipeline := opts.Pipeline
	if pipeline == nil {
		p, err := pkgs.Pipeline()
		if err != nil {
			return err
		}
		pipeline = p
	}

	layout, err := env.Resolve(opts.Prefix)
	if err != nil {
		return err
	}

	out, err := logtee.New(env.LogFile, terminal)
	if err != nil {
		return err
	}
	defer out.Close()

	ws, err := workspace.Enter(env.WorkDirName)
	if err != nil {
		return err
	}

	if err := install(ctx, layout, pipeline, out); err != nil {
		fmt.Fprintln(out, color.Red.Sprint(err.Error()))
		if lerr := ws.Leave(); lerr != nil {
			fmt.Fprintln(out, color.Red.Sprint(lerr.Error()))
		}
		return err
	}
	if err := ws.Leave(); err != nil {
		return err
	}

	fmt.Fprintln(out, color.Green.Sprint("Finished installing pyMode dependencies!"))
	return nil
}

// install runs inside the build workspace.
func install(ctx context.Context, layout env.Layout, pipeline []pkgs.Package, out io.Writer) error {
	ins := New(fetch.NewClient(), layout, out)
	for _, pkg := range pipeline {
		if err := ins.Install(ctx, pkg); err != nil {
			return err
		}
	}
	path, err := env.ManifestPath()
	if err != nil {
		return err
	}
	return manifest.Write(path, layout.InstallDir)
}
