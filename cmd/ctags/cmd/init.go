package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/puretechnyc/ctags/internal/adapters/bbolt"
	"github.com/puretechnyc/ctags/internal/adapters/socket"
	"github.com/puretechnyc/ctags/internal/adapters/tagfile"
	"github.com/puretechnyc/ctags/internal/app"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Index the current project",
	Long:  "Scans all claimed files, persists the project index, and writes the tags file.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	// If the daemon is running, delegate via socket. It holds the bbolt
	// lock, so opening the store here would block.
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		fmt.Println("daemon running, delegating reindex")
		result, err := client.Reindex()
		if err != nil {
			return fmt.Errorf("reindex via daemon: %w", err)
		}
		fmt.Printf("indexed %d files, %d tags (%dms)\n",
			result.FileCount, result.TagCount, result.ElapsedMs)
		return nil
	}

	// No daemon, do it directly.
	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create %s dirs: %w", filepath.Base(paths.Root), err)
	}

	cfg, err := app.LoadConfig(root)
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

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	idx, res, err := app.BuildIndex(root, reg, cfg)
	if err != nil {
		store.Close()
		return fmt.Errorf("build index: %w", err)
	}

	projectID := filepath.Base(root)
	if err := store.SaveIndex(projectID, idx); err != nil {
		store.Close()
		return fmt.Errorf("save index: %w", err)
	}
	store.Close()

	tagsPath := filepath.Join(root, cfg.Output)
	if err := tagfile.WriteFile(tagsPath, idx, app.Program); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	fmt.Printf("indexed %d files, %d tags\n", res.FileCount, res.TagCount)
	return nil
}
