package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snapmirror/constants/lipgloss"
	"snapmirror/utils"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Reset the persisted snapshot cache",
	Long: `The 'reset-cache' command removes every persisted project snapshot from the
snapshot store. Use it to clear corrupted entries or to force the next prepare
to rebuild from a fresh acquisition.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")
		handleResetCacheCommand(force, stats, cmd)
	},
}

func init() {
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(force bool, showStats bool, cmd *cobra.Command) {
	rootDependencies := handleRootCommand(cmd)
	if rootDependencies == nil {
		return
	}
	defer rootDependencies.Cache.Close()

	if showStats {
		fmt.Println(lipgloss.Info.Render("Cache Statistics:"))
		cacheStats := rootDependencies.Cache.Stats()
		if projects, ok := cacheStats["cached_projects"].(int); ok {
			fmt.Printf("  Cached Projects: %d\n", projects)
		}
		if rootDependencies.Store == nil {
			fmt.Println("  Persistence is disabled")
			return
		}
		fmt.Printf("  Store Directory: %s\n", rootDependencies.Store.Dir())
		if count, size, err := rootDependencies.Store.FileCount(); err == nil {
			fmt.Printf("  Persisted Snapshots: %d\n", count)
			fmt.Printf("  Total Size: %.2f MB\n", float64(size)/(1024*1024))
		} else {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: Could not read store: %v", err)))
		}
		return
	}

	if !force {
		confirmed, err := utils.ConfirmPrompt(bufio.NewReader(os.Stdin), "Are you sure you want to reset the snapshot cache?")
		if err != nil || !confirmed {
			fmt.Println(lipgloss.Yellow.Render("Cache reset cancelled."))
			return
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Resetting snapshot cache...")

	rootDependencies.Cache.ClearAllCaches()

	spinnerInstance.Stop()
	fmt.Print("\r")
	fmt.Println(lipgloss.Green.Render("✓ Snapshot cache has been successfully reset!"))
}
