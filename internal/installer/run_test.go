package installer

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pymode/pmdeps/internal/pkgs"
)

// A failed download must leave no trace: working directory restored, build
// workspace removed, no manifest, no completion message — but the error is
// in the log.
func TestRunDownloadFailure(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mirror down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	workDir := t.TempDir()
	chdir(t, workDir)

	var terminal bytes.Buffer
	err := Run(context.Background(), Options{
		Prefix:   filepath.Join(t.TempDir(), "deps") + "/",
		Terminal: &terminal,
		Pipeline: []pkgs.Package{{
			Name:    "petsc",
			Version: "0.1",
			URL:     srv.URL,
			Archive: "petsc-0.1.tar.gz",
		}},
	})
	if err == nil {
		t.Fatal("expected error from failed download")
	}

	wd, _ := os.Getwd()
	if resolve(t, wd) != resolve(t, workDir) {
		t.Errorf("working directory = %q, want %q", wd, workDir)
	}
	if _, err := os.Stat(filepath.Join(workDir, "build")); !os.IsNotExist(err) {
		t.Errorf("build workspace not removed (stat err: %v)", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".pymode_deps")); !os.IsNotExist(err) {
		t.Error("manifest written despite failed install")
	}
	if strings.Contains(terminal.String(), "Finished installing") {
		t.Error("completion message printed despite failure")
	}

	logData, err := os.ReadFile(filepath.Join(workDir, "install.log"))
	if err != nil {
		t.Fatalf("install.log missing: %v", err)
	}
	if !strings.Contains(string(logData), "download petsc") {
		t.Errorf("log %q does not report the failed download", logData)
	}
}

func TestRunSuccess(t *testing.T) {
	requireTools(t, "tar", "sh")

	home := t.TempDir()
	t.Setenv("HOME", home)

	recordDir := t.TempDir()
	t.Setenv("PMDEPS_TEST_DIR", recordDir)
	fakeMake(t)

	petscTar := sourceTarball(t, "petsc-0.1", "exit 0\n")
	slepcTar := sourceTarball(t, "slepc-0.1", `printf '%s' "$PETSC_DIR" > "$PMDEPS_TEST_DIR/petsc_dir_for_slepc.txt"`+"\n")
	petscSrv := serve(t, petscTar)
	slepcSrv := serve(t, slepcTar)

	workDir := t.TempDir()
	chdir(t, workDir)
	t.Setenv("PETSC_DIR", "/stale") // must be replaced by the exported location

	prefix := filepath.Join(t.TempDir(), "deps") + "/"
	var terminal bytes.Buffer
	err := Run(context.Background(), Options{
		Prefix:   prefix,
		Terminal: &terminal,
		Pipeline: []pkgs.Package{
			{
				Name:         "petsc",
				Version:      "0.1",
				URL:          petscSrv.URL,
				Archive:      "petsc-0.1.tar.gz",
				BuildTargets: []string{"all"},
				ClearEnv:     []string{"PETSC_DIR", "PETSC_ARCH"},
				ExportEnv:    "PETSC_DIR",
			},
			{
				Name:         "slepc",
				Version:      "0.1",
				URL:          slepcSrv.URL,
				Archive:      "slepc-0.1.tar.gz",
				BuildTargets: []string{"all"},
				ClearEnv:     []string{"SLEPC_DIR"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// SLEPc's configure saw the location PETSc exported.
	handoff, err := os.ReadFile(filepath.Join(recordDir, "petsc_dir_for_slepc.txt"))
	if err != nil {
		t.Fatalf("slepc configure never ran: %v", err)
	}
	if string(handoff) != prefix {
		t.Errorf("PETSC_DIR seen by slepc = %q, want %q", handoff, prefix)
	}

	manifestData, err := os.ReadFile(filepath.Join(home, ".pymode_deps"))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	want := "PETSC_DIR=" + prefix + "\nPETSC_ARCH=\nSLEPC_DIR=" + prefix + "\n"
	if string(manifestData) != want {
		t.Errorf("manifest = %q, want %q", manifestData, want)
	}

	if !strings.Contains(terminal.String(), "Finished installing pyMode dependencies!") {
		t.Error("completion message missing after successful run")
	}

	// Install tree exists, workspace is gone, cwd restored.
	for _, dir := range []string{prefix, filepath.Join(prefix, "include"), filepath.Join(prefix, "lib")} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("install dir %s missing: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(workDir, "build")); !os.IsNotExist(err) {
		t.Errorf("build workspace not removed (stat err: %v)", err)
	}
	wd, _ := os.Getwd()
	if resolve(t, wd) != resolve(t, workDir) {
		t.Errorf("working directory = %q, want %q", wd, workDir)
	}

	// The log mirrors the terminal byte for byte.
	logData, err := os.ReadFile(filepath.Join(workDir, "install.log"))
	if err != nil {
		t.Fatalf("install.log missing: %v", err)
	}
	if string(logData) != terminal.String() {
		t.Errorf("log = %q, terminal = %q; want identical", logData, terminal.String())
	}
}

// Running twice against the same prefix must tolerate the directories the
// first run created.
func TestRunTwiceSamePrefix(t *testing.T) {
	requireTools(t, "tar", "sh")

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PMDEPS_TEST_DIR", t.TempDir())
	fakeMake(t)

	tarball := sourceTarball(t, "petsc-0.1", "exit 0\n")
	srv := serve(t, tarball)

	chdir(t, t.TempDir())
	prefix := filepath.Join(t.TempDir(), "deps") + "/"
	opts := Options{
		Prefix:   prefix,
		Terminal: &bytes.Buffer{},
		Pipeline: []pkgs.Package{{
			Name:         "petsc",
			Version:      "0.1",
			URL:          srv.URL,
			Archive:      "petsc-0.1.tar.gz",
			BuildTargets: []string{"all"},
		}},
	}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("second Run: %v", err)
	}
}

// resolve follows symlinks so paths compare equal on platforms where TempDir
// lives behind one.
func resolve(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}
