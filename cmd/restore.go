package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var restoreForce bool

var restoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Restore all configured databases from an in-container snapshot",
	Long:  "Drop all tables in every configured database and reload them from the\nnamed snapshot (or the snapshot of the current git branch)",
	Args:  cobra.MaximumNArgs(1),
	Run:   runRestore,
}

func runRestore(cmd *cobra.Command, args []string) {
	name, err := snapshotNameFromArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}

	mgr, cfg, cleanup, err := newSnapshotManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> restoring snapshot: %s", name)))
	fmt.Println()

	if !restoreForce {
		fmt.Println(errorStyle.Render(fmt.Sprintf("[warn]  warning: this will replace all data in: %s", strings.Join(cfg.Databases, ", "))))
		if cfg.SafeRestore {
			fmt.Println(labelStyle.Render("   a safety snapshot will be taken first"))
		} else {
			fmt.Println(labelStyle.Render("   safe-restore is disabled, current data will be lost"))
		}
		fmt.Println()
		fmt.Print(labelStyle.Render("type the snapshot name to confirm: "))

		var confirmation string
		fmt.Scanln(&confirmation)

		if strings.TrimSpace(confirmation) != name {
			fmt.Println(labelStyle.Render("\nrestore cancelled."))
			return
		}
		fmt.Println()
	}

	fmt.Println(progressStyle.Render("  --> connecting to database..."))
	if err := mgr.CheckTarget(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}

	if cfg.SafeRestore {
		fmt.Println(progressStyle.Render("  --> taking safety snapshots..."))
	}
	fmt.Println(progressStyle.Render("  --> restoring from snapshot..."))
	fmt.Println()

	results, err := mgr.Restore(name)
	failed := printResults(results, "restored")
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}
	fmt.Println()

	if failed > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %d of %d databases failed", failed, len(results))))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("  [done] snapshot restored successfully"))
	fmt.Println()
}

func init() {
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(restoreCmd)
}
