package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"snapmirror/constants/lipgloss"
	"snapmirror/mirror"
	"snapmirror/sync_preparer"
	"snapmirror/utils"
)

// prepareCmd: snapmirror prepare
var prepareCmd = &cobra.Command{
	Use:   "prepare [dir]",
	Short: "Filter and hash a project snapshot for syncing",
	Long: `The 'prepare' command runs the full preparation pipeline over a project
snapshot: ignore filtering, content normalization, and content-address
hashing. The snapshot comes either from a directory walk or, with --archive,
from an exported project archive. The result is the exact file list the diff
and commit stage would consume.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		archive, _ := cmd.Flags().GetString("archive")
		projectID, _ := cmd.Flags().GetString("project")
		handlePrepareCommand(cmd, args, archive, projectID)
	},
}

func init() {
	prepareCmd.Flags().String("archive", "", "Path to an exported project archive to prepare instead of walking a directory")
	prepareCmd.Flags().String("project", "default", "Project id used as the cache key")
	rootCmd.AddCommand(prepareCmd)
}

// archiveFileEngine satisfies the acquisition contract from a local archive
// file, letting the CLI exercise the same coordinator path the browser
// embedding uses.
type archiveFileEngine struct {
	path string
}

func (e *archiveFileEngine) AcquireSnapshotArchive(ctx context.Context) ([]byte, error) {
	return os.ReadFile(e.path)
}

func handlePrepareCommand(cmd *cobra.Command, args []string, archive, projectID string) {
	rootDependencies := handleRootCommand(cmd)
	if rootDependencies == nil {
		return
	}
	defer rootDependencies.Cache.Close()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Preparing project snapshot...")

	if archive == "" {
		dir := rootDependencies.Cwd
		if len(args) > 0 {
			dir = args[0]
		}
		files, err := utils.LoadProjectDir(dir)
		if err != nil {
			spinnerInstance.Stop()
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error loading project files: %v", err)))
			return
		}
		rootDependencies.Cache.CacheProjectFiles(projectID, files)
	}

	coordinator := mirror.NewCoordinator(rootDependencies.Cache, &archiveFileEngine{path: archive})
	defer coordinator.Close()

	prepared, err := coordinator.PrepareProject(context.Background(), projectID)
	spinnerInstance.Stop()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return
	}

	files, err := coordinator.GetProjectFiles(context.Background(), projectID)
	if err == nil {
		fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("Snapshot fingerprint: %s", sync_preparer.SnapshotFingerprint(files))))
	}

	rows := pterm.TableData{{"Path", "Hash"}}
	for _, file := range prepared {
		rows = append(rows, []string{file.Path, file.Hash})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ %d files prepared for sync", len(prepared))))
}
