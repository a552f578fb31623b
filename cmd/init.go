package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/astroquery/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize astroquery configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the backend address, port and storage location, and writes astroquery.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
