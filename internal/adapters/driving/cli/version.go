package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// Skips the bootstrap so a broken config still reports a version.
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("knots version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
