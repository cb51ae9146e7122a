package internal

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pymode/pmdeps/internal/installer"
)

var installPrefix string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download, build and install PETSc and SLEPc",
	Long: `Install fetches the pinned PETSc and SLEPc releases, builds them with their
native configure/make toolchains and installs them under the prefix
(~/.pymode/ unless --prefix is given). All output is mirrored to install.log
in the current directory; if the install fails, read through it to find out
which prerequisite is missing.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPrefix, "prefix", "", "Set the installation directory for dependencies")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	return installer.Run(context.Background(), installer.Options{
		Prefix: installPrefix,
	})
}
