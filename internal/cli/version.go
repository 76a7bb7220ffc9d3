package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("tsbridge %s (commit %s, built %s)\n", build.Version, build.Commit, build.Date)
	},
}
