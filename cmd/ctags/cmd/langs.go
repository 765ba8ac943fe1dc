package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/puretechnyc/ctags/internal/app"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List registered languages and their kinds",
	RunE:  runLangs,
}

func runLangs(cmd *cobra.Command, args []string) error {
	reg, err := app.NewLanguageRegistry()
	if err != nil {
		return err
	}

	// Reflect the project's kind configuration in the listing.
	cfg, err := app.LoadConfig(projectRoot())
	if err != nil {
		return err
	}
	if err := cfg.ApplyKinds(reg); err != nil {
		return err
	}

	fmt.Print(formatLangs(reg.Definitions()))
	return nil
}
