package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/astroquery/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "astroquery",
	Short: "Space biology research explorer",
	Long: `AstroQuery serves a web front end for a space biology research backend:
semantic publication search with summaries and insights, a knowledge graph,
a research chat assistant, structured lessons with quizzes, a mission outcome
simulator and a novelty analyzer for draft papers. The same backend is
exposed to AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
