package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var restoreLocalForce bool

var restoreLocalCmd = &cobra.Command{
	Use:   "restore-local [name]",
	Short: "Restore all configured databases from local snapshot files",
	Long:  "Drop and recreate every configured database, reload it from the snapshot\nfiles in the working directory, and restore the auxiliary file snapshots",
	Args:  cobra.MaximumNArgs(1),
	Run:   runRestoreLocal,
}

func runRestoreLocal(cmd *cobra.Command, args []string) {
	name, err := snapshotNameFromArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] failed to get working directory: %v", err)))
		os.Exit(1)
	}

	mgr, cfg, cleanup, err := newSnapshotManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> restoring local snapshot: %s", name)))
	fmt.Println()

	if !restoreLocalForce {
		fmt.Println(errorStyle.Render(fmt.Sprintf("[warn]  warning: this will drop and recreate: %s", strings.Join(cfg.Databases, ", "))))
		if len(cfg.Files) > 0 {
			fmt.Println(labelStyle.Render(fmt.Sprintf("   auxiliary files will be overwritten: %s", strings.Join(cfg.Files, ", "))))
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

	results, err := mgr.RestoreLocal(name, cwd)
	failed := printResults(results, "restored")
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}
	fmt.Println()

	if failed > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %d of %d targets failed", failed, len(results))))
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("  [done] snapshot restored successfully"))
	fmt.Println()
}

func init() {
	restoreLocalCmd.Flags().BoolVarP(&restoreLocalForce, "force", "f", false, "skip confirmation")
	rootCmd.AddCommand(restoreLocalCmd)
}
