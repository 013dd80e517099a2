package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snapmirror/constants/lipgloss"
	"snapmirror/sync_preparer"
)

// hashCmd: snapmirror hash
var hashCmd = &cobra.Command{
	Use:   "hash <file>",
	Short: "Print the content-address hash of a file",
	Long: `The 'hash' command computes the same content-address hash the remote
versioning system assigns to a file's content, so local files can be compared
against remote objects without uploading anything.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading file: %v", err)))
			return
		}
		fmt.Println(sync_preparer.ComputeContentHash(string(content)))
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
