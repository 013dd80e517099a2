package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"snapmirror/config"
	"snapmirror/constants/lipgloss"
	"snapmirror/logging"
	"snapmirror/snapshot_cache"
)

// rootCmd: snapmirror
var rootCmd = &cobra.Command{
	Use:   "snapmirror",
	Short: "Mirror a project builder's working tree into a version-control repository.",
	Long: `Snapmirror acquires complete snapshots of a project's files, caches them with
time-based staleness, and prepares file content for exact comparison against a
remote repository's stored objects: ignore filtering, normalization, and
content-address hashing.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// RootDependencies are the shared components every subcommand builds on.
type RootDependencies struct {
	Config *config.Config
	Cwd    string
	Cache  *snapshot_cache.SnapshotCache
	Store  *snapshot_cache.DiskStore
}

// handleRootCommand loads configuration, initializes logging, and constructs
// the snapshot cache. The CLI runs outside a host page, so no idle facilities
// are wired in; background refresh belongs to the long-lived embedding.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		return nil
	}

	cfg := config.LoadConfigs(rootCmd, cwd)
	logging.InitLogger(cfg.Logging)

	var store *snapshot_cache.DiskStore
	if cfg.Cache.Persist {
		store, err = snapshot_cache.NewDiskStore(cfg.Cache.Dir)
		if err != nil {
			logrus.WithError(err).Warn("snapshot store unavailable, continuing without persistence")
			store = nil
		}
	}

	cache := snapshot_cache.NewSnapshotCache(nil, nil, store)
	cache.SetMaxCacheAge(cfg.Cache.MaxAge)
	cache.SetIdleRefreshEnabled(cfg.Cache.IdleRefresh)

	return &RootDependencies{
		Config: cfg,
		Cwd:    cwd,
		Cache:  cache,
		Store:  store,
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}
