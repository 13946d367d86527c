package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ziadkadry99/blognav/internal/config"
)

var initDefaults bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize blognav configuration with an interactive wizard",
	Long: `Runs an interactive wizard to configure blognav for your blog and generates
a .blognav.yml file. When stdin is not a terminal, or with --defaults, the
defaults for the detected site generator are written without prompting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initDefaults || !term.IsTerminal(int(os.Stdin.Fd())) {
			if _, err := config.WriteDefaults(cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", cfgFile)
			return nil
		}
		_, err := config.RunWizard(cfgFile, os.Stdout)
		return err
	},
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the default configuration without prompting")
	rootCmd.AddCommand(initCmd)
}
