package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fedy97/branch-db-state-switcher/internal/snapshot"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	Long:  "List snapshot artifacts stored inside the container",
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	mgr, cfg, cleanup, err := newSnapshotManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] %v", err)))
		os.Exit(1)
	}
	defer cleanup()

	artifacts, err := mgr.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("[error] failed to list snapshots: %v", err)))
		os.Exit(1)
	}

	if len(artifacts) == 0 {
		fmt.Println(dimStyle.Render("no snapshots found"))
		fmt.Println()
		fmt.Println(dimStyle.Render("create one with: dbstate backup"))
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> snapshots in %s (%d)", cfg.Container, len(artifacts))))
	fmt.Println()

	rows := [][]string{}
	for _, artifact := range artifacts {
		db, name, ok := snapshot.SplitArtifact(artifact, cfg.Databases)
		if !ok {
			db, name = "-", "-"
		}
		rows = append(rows, []string{db, name, artifact})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return lipgloss.NewStyle().
					Foreground(lipgloss.Color("86")).
					Bold(true).
					Align(lipgloss.Center)
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		}).
		Headers("database", "snapshot", "artifact").
		Rows(rows...)

	fmt.Println(t)
	fmt.Println()

	fmt.Println(dimStyle.Render("  commands:"))
	fmt.Printf("    %s\n", dimStyle.Render("dbstate restore [name]     # restore a snapshot"))
	fmt.Printf("    %s\n", dimStyle.Render("dbstate delete [name]      # delete a snapshot"))
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
