package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pymode/pmdeps/internal/pkgs"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pmdeps version 0.1.0")
		fmt.Printf("provisions petsc %s, slepc %s\n", pkgs.PetscVersion, pkgs.SlepcVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
