package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var backupLocalCmd = &cobra.Command{
	Use:   "backup-local [name]",
	Short: "Snapshot all configured databases into the current directory",
	Long:  "Stream a dump of every configured database into the working directory\nand snapshot the configured auxiliary files alongside them",
	Args:  cobra.MaximumNArgs(1),
	Run:   runBackupLocal,
}

func runBackupLocal(cmd *cobra.Command, args []string) {
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

	mgr, _, cleanup, err := newSnapshotManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> creating local snapshot: %s", name)))
	fmt.Println()

	fmt.Println(progressStyle.Render("  --> connecting to database..."))
	if err := mgr.CheckTarget(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %v", err)))
		os.Exit(1)
	}

	fmt.Println(progressStyle.Render("  --> running pg_dump..."))
	fmt.Println()

	results := mgr.BackupLocal(name, cwd)

	var failed int
	var totalSize int64
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("  [error] %s: %v", r.Name, r.Err)))
			continue
		}
		totalSize += r.SizeBytes
		fmt.Println(successStyle.Render(fmt.Sprintf("  [done] backed up %s", r.Name)) +
			dimStyle.Render(fmt.Sprintf(" (%s, %s)", r.Artifact, humanize.Bytes(uint64(r.SizeBytes)))))
	}
	fmt.Println()

	if failed > 0 {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %d of %d targets failed", failed, len(results))))
		os.Exit(1)
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("  total: %s", humanize.Bytes(uint64(totalSize)))))
	fmt.Println(dimStyle.Render(fmt.Sprintf("  restore with: dbstate restore-local %s", name)))
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(backupLocalCmd)
}
