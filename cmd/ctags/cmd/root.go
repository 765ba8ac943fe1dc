package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/puretechnyc/ctags/internal/app"
)

var rootCmd = &cobra.Command{
	Use:     "ctags",
	Short:   "Tag file generator for Ruby projects",
	Long:    "Extracts class, module, method and constant definitions into editor tags files, with an optional daemon that keeps them fresh as files change.",
	Version: app.Version,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(langsCmd)
	rootCmd.AddCommand(wipeCmd)
}
