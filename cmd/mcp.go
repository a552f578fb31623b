package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/markdown"
	mcpserver "github.com/ziadkadry99/astroquery/internal/mcp"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing publication search, summaries, insights and mission predictions as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Logs go to stderr; stdout carries the protocol.
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		client := newBackendClient(cfg, logger)

		mcpserver.Version = Version

		srv := mcpserver.NewServer(mcpserver.Deps{
			Search:    search.NewService(client, nil, logger.Named("search")),
			Summaries: client,
			Insights:  insights.NewService(client, cfg.InsightsCacheSize, cfg.InsightsCacheTTL(), markdown.New(), logger.Named("insights")),
			Simulator: simulator.NewService(client, nil, logger.Named("simulator")),
		})

		fmt.Fprintf(os.Stderr, "astroquery MCP server started on stdio (backend=%s)\n", cfg.BackendURL)
		logger.Debug("mcp tools registered", zap.String("version", Version))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
