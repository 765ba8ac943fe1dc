package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/puretechnyc/ctags/internal/adapters/bbolt"
	"github.com/puretechnyc/ctags/internal/adapters/socket"
	"github.com/puretechnyc/ctags/internal/app"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long:  "Reads from the daemon when it is running, otherwise from the persisted index.",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if client.Ping() {
		result, err := client.Stats()
		if err != nil {
			return err
		}
		fmt.Print(formatStats(result, true))
		return nil
	}

	// Daemon down: read the persisted index directly.
	paths := app.NewPaths(root)
	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		return fmt.Errorf("no index found; run: ctags init")
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	idx, err := store.LoadIndex(filepath.Base(root))
	if err != nil {
		return err
	}
	if idx == nil {
		return fmt.Errorf("no index found; run: ctags init")
	}

	cfg, err := app.LoadConfig(root)
	if err != nil {
		return err
	}

	kinds, languages := app.TallyIndex(idx)
	fmt.Print(formatStats(&socket.StatsResult{
		ProjectRoot: root,
		DBPath:      paths.DB,
		TagsPath:    filepath.Join(root, cfg.Output),
		FileCount:   len(idx.Files),
		TagCount:    idx.TagCount(),
		Kinds:       kinds,
		Languages:   languages,
	}, false))
	return nil
}
