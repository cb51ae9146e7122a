// Package pkgs declares the third-party source releases pmdeps provisions.
package pkgs

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Pinned release versions. SLEPc tracks PETSc's release series: a SLEPc
// x.y release only builds against a PETSc x.y release.
const (
	PetscVersion = "3.12.1"
	SlepcVersion = "3.12.1"
)

// Package describes one source release: where to fetch it and how to drive
// its native configure/make/make-install toolchain.
type Package struct {
	Name    string
	Version string
	URL     string
	Archive string // archive file name inside the build workspace

	ConfigureArgs []string // flags after the automatic --prefix
	BuildTargets  []string // make targets run before install

	// TestAfterInstall runs "make test" after "make install" instead of
	// folding it into the build targets. SLEPc's test target needs the
	// installed tree.
	TestAfterInstall bool

	ClearEnv  []string // variables unset before the download begins
	ExportEnv string   // variable set to the install dir after install, "" for none
}

// SourceDir returns the directory name the archive extracts to.
func (p Package) SourceDir() string {
	return p.Name + "-" + p.Version
}

// Petsc returns the PETSc descriptor. A stale PETSC_DIR or PETSC_ARCH in the
// environment makes PETSc's configure fail, so both are cleared first.
func Petsc() Package {
	return Package{
		Name:    "petsc",
		Version: PetscVersion,
		URL: fmt.Sprintf(
			"http://ftp.mcs.anl.gov/pub/petsc/release-snapshots/petsc-%s.tar.gz",
			PetscVersion),
		Archive: fmt.Sprintf("petsc-%s.tar.gz", PetscVersion),
		ConfigureArgs: []string{
			"--with-scalar-type=complex",
			"--with-mpi=1",
			"--COPTFLAGS='-O3'",
			"--FOPTFLAGS='-O3'",
			"--CXXOPTFLAGS='-O3'",
			"--with-debugging=0",
			"--download-scalapack",
			"--download-mumps",
			"--download-openblas",
		},
		BuildTargets: []string{"all", "test"},
		ClearEnv:     []string{"PETSC_DIR", "PETSC_ARCH"},
		ExportEnv:    "PETSC_DIR",
	}
}

// Slepc returns the SLEPc descriptor. Its configure locates PETSc through
// the PETSC_DIR variable exported by the PETSc install.
func Slepc() Package {
	return Package{
		Name:    "slepc",
		Version: SlepcVersion,
		URL: fmt.Sprintf(
			"http://slepc.upv.es/download/distrib/slepc-%s.tar.gz",
			SlepcVersion),
		Archive:          fmt.Sprintf("slepc-%s.tar.gz", SlepcVersion),
		BuildTargets:     []string{"all"},
		TestAfterInstall: true,
		ClearEnv:         []string{"SLEPC_DIR"},
	}
}

// Pipeline returns the packages in install order. Each entry may rely on the
// environment exported by the entries before it.
func Pipeline() ([]Package, error) {
	if !Compatible(PetscVersion, SlepcVersion) {
		return nil, fmt.Errorf("slepc %s is not compatible with petsc %s", SlepcVersion, PetscVersion)
	}
	return []Package{Petsc(), Slepc()}, nil
}

// Compatible reports whether a SLEPc release can build against a PETSc
// release: both must be valid versions from the same major.minor series.
func Compatible(petscVer, slepcVer string) bool {
	pv, sv := "v"+petscVer, "v"+slepcVer
	if !semver.IsValid(pv) || !semver.IsValid(sv) {
		return false
	}
	return semver.MajorMinor(pv) == semver.MajorMinor(sv)
}
