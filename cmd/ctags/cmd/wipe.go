package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/puretechnyc/ctags/internal/adapters/bbolt"
	"github.com/puretechnyc/ctags/internal/adapters/socket"
	"github.com/puretechnyc/ctags/internal/app"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete persisted project data",
	Long:  "Deletes the persisted index for this project. Works with or without the daemon.",
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	root := projectRoot()

	if !wipeForce {
		fmt.Printf("This deletes the persisted index for %s. Continue? [y/N] ", filepath.Base(root))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	// If the daemon is running, wipe through it so its in-memory index
	// empties too.
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		if err := client.Wipe(); err != nil {
			return err
		}
		fmt.Println("project data wiped (daemon)")
		return nil
	}

	// Daemon not running: wipe the store directly.
	paths := app.NewPaths(root)
	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		fmt.Println("no data to wipe")
		return nil
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	if err := store.DeleteProject(filepath.Base(root)); err != nil {
		store.Close()
		return err
	}
	store.Close()

	fmt.Println("project data wiped")
	return nil
}
