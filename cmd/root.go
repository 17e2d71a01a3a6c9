package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/minho/lingua/internal/config"
	"github.com/minho/lingua/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lingua",
	Short: "Adaptive language-tutoring core",
	Long:  "Lingua — adaptive difficulty engine and gamification ledger for language-tutoring sessions.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGUA_DB env var)")
	rootCmd.PersistentFlags().String("user", "local", "Learner id to operate on")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore builds the record store selected by the environment.
func openStore(cmd *cobra.Command) (store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	if cfg.Backend == config.BackendRedis {
		return store.OpenRedis(cmd.Context(), cfg.RedisAddr, cfg.RedisPassword)
	}

	path, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then LINGUA_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
