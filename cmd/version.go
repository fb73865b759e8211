package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Println(titleStyle.Render("dbstate"))
	fmt.Printf("  %s %s\n", dimStyle.Render("version:"), valueStyle.Render(version))
	fmt.Printf("  %s %s\n", dimStyle.Render("built:"), valueStyle.Render(buildTime))
	fmt.Printf("  %s %s\n", dimStyle.Render("commit:"), valueStyle.Render(gitCommit))
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
