package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("clausefinder version %s\n", version)
		if verbose {
			cmd.Printf("  go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if indexService != nil {
				if stats, err := indexService.Stats(); err == nil {
					cmd.Printf("  index: %s, %d clauses\n", stats.Backend, stats.Count)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
