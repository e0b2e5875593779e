package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vesper/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "vesper",
	Short: "Vesper foreign-bridge compiler backend",
	Long:  `Vesper lowers declaration manifests to the Objective-C bridging metadata and dispatch IR the runtime consumes`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cleanCmd)

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
