package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minho/lingua/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local progress database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Backend == config.BackendRedis {
			return fmt.Errorf("reset only supports the sqlite backend; flush redis directly")
		}

		path, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Nothing to reset:", path)
			return nil
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("This deletes all progress in %s. Continue? [y/N] ", path)
			var answer string
			fmt.Fscanln(cmd.InOrStdin(), &answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
		// WAL sidecar files, best effort.
		os.Remove(path + "-wal")
		os.Remove(path + "-shm")

		fmt.Println("Removed", path)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("force", false, "Skip the confirmation prompt")
}
