package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/puretechnyc/ctags/internal/adapters/tagfile"
	"github.com/puretechnyc/ctags/internal/app"
)

var (
	genOutputFlag string
	genKindsRuby  string
)

var genCmd = &cobra.Command{
	Use:   "gen [path]",
	Short: "Scan a project and write its tags file",
	Long:  "One-shot scan: walks the project, extracts definitions, and writes the tags file. Does not touch the persisted index.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGen,
}

func init() {
	genCmd.Flags().StringVarP(&genOutputFlag, "output", "f", "", `tags file to write; "-" for stdout (default from .ctags.yml)`)
	genCmd.Flags().StringVar(&genKindsRuby, "kinds-ruby", "", "Ruby kind letters to enable (default cfmSC)")
}

func runGen(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	if len(args) == 1 {
		root = args[0]
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return fmt.Errorf("project root: %w", err)
	}

	cfg, err := app.LoadConfig(absRoot)
	if err != nil {
		return err
	}
	reg, err := app.NewLanguageRegistry()
	if err != nil {
		return err
	}
	if err := cfg.ApplyKinds(reg); err != nil {
		return err
	}
	// The flag wins over the config file.
	if genKindsRuby != "" {
		if err := reg.SetEnabledKinds("ruby", genKindsRuby); err != nil {
			return err
		}
	}

	idx, res, err := app.BuildIndex(absRoot, reg, cfg)
	if err != nil {
		return err
	}

	output := cfg.Output
	if genOutputFlag != "" {
		output = genOutputFlag
	}
	if output == "-" {
		return tagfile.Write(os.Stdout, idx, app.Program)
	}

	outPath := output
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(absRoot, outPath)
	}
	if err := tagfile.WriteFile(outPath, idx, app.Program); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	fmt.Printf("wrote %s: %d tags from %d files\n", outPath, res.TagCount, res.FileCount)
	return nil
}
