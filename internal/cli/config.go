package cli

import (
	"github.com/spf13/cobra"

	"github.com/nerrad567/tsbridge/internal/infrastructure/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print a commented sample configuration",
	Long: `Prints a complete config.toml with every setting, its default value,
and a short description. Redirect to a file to start a new deployment:

  tsbridge config > config.toml`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Print(config.Sample())
	},
}
