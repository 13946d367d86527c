package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blognav/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blognav",
	Short: "Search, table of contents and category navigation for a static blog",
	Long: `blognav builds the search index of a static blog and drives its three
navigation widgets outside the browser: the debounced in-page search, the
table-of-contents scroll-spy and the collapsible category tree. It can also
serve the built site with live search over a websocket and expose the index
to AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
