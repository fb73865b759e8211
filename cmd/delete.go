package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a snapshot",
	Long:  "Remove the named snapshot artifact of every configured database from the\nin-container snapshot directory",
	Args:  cobra.MaximumNArgs(1),
	Run:   runDelete,
}

func runDelete(cmd *cobra.Command, args []string) {
	name, err := snapshotNameFromArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}

	mgr, _, cleanup, err := newSnapshotManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> deleting snapshot: %s", name)))
	fmt.Println()

	results := mgr.Delete(name)
	failed := printResults(results, "deleted snapshot of")
	fmt.Println()

	if failed > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %d of %d artifacts could not be deleted", failed, len(results))))
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
