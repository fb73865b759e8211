package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteAllForce bool

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every snapshot",
	Long:  "Remove the entire in-container snapshot directory",
	Args:  cobra.NoArgs,
	Run:   runDeleteAll,
}

func runDeleteAll(cmd *cobra.Command, args []string) {
	mgr, cfg, cleanup, err := newSnapshotManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}
	defer cleanup()

	if !deleteAllForce {
		fmt.Println(titleStyle.Render("==> delete all snapshots"))
		fmt.Println()
		fmt.Println(errorStyle.Render(fmt.Sprintf("[warn]  warning: every snapshot in %s will be permanently deleted", cfg.Container)))
		fmt.Println(labelStyle.Render("   this action cannot be undone"))
		fmt.Println()
		fmt.Print(labelStyle.Render("type 'delete' to confirm: "))

		var confirmation string
		fmt.Scanln(&confirmation)

		if strings.TrimSpace(strings.ToLower(confirmation)) != "delete" {
			fmt.Println(labelStyle.Render("\ndeletion cancelled."))
			return
		}
		fmt.Println()
	}

	fmt.Println(progressStyle.Render("  --> deleting snapshots..."))

	if err := mgr.DeleteAll(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("  [done] all snapshots deleted"))
	fmt.Println()
}

func init() {
	deleteAllCmd.Flags().BoolVarP(&deleteAllForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(deleteAllCmd)
}
