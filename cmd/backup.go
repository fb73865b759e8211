package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup [name]",
	Short: "Snapshot all configured databases inside the container",
	Long:  "Dump every configured database to the in-container snapshot directory,\nnamed after the given snapshot name or the current git branch",
	Args:  cobra.MaximumNArgs(1),
	Run:   runBackup,
}

func runBackup(cmd *cobra.Command, args []string) {
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

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> creating snapshot: %s", name)))
	fmt.Println()

	fmt.Println(progressStyle.Render("  --> connecting to database..."))
	if err := mgr.CheckTarget(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}

	fmt.Println(progressStyle.Render("  --> running pg_dump..."))
	results, err := mgr.Backup(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}
	fmt.Println()

	failed := printResults(results, "backed up")
	fmt.Println()

	if failed > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %d of %d databases failed", failed, len(results))))
		os.Exit(1)
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("  restore with: dbstate restore %s", name)))
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
