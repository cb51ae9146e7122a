package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pmdeps",
	Short: "pmdeps provisions the numerical libraries pyMode depends on",
	Long: `pmdeps downloads, compiles and installs PETSc and SLEPc from source, then
records their install locations in ~/.pymode_deps for pyMode's build to consume.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
