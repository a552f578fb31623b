package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Summarizer produces publication summaries.
type Summarizer interface {
	Summarize(ctx context.Context, pubID string) (*backend.Summary, error)
}

// Deps are the services the tools call.
type Deps struct {
	Search    *search.Service
	Summaries Summarizer
	Insights  *insights.Service
	Simulator *simulator.Service
}

// Server wraps an MCP server that exposes publication search and the
// mission simulator as tools.
type Server struct {
	Deps
	mcp *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(d Deps) *Server {
	s := &Server{Deps: d}

	s.mcp = server.NewMCPServer(
		"astroquery",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchPublicationsTool, s.handleSearchPublications)
	s.mcp.AddTool(getSummaryTool, s.handleGetSummary)
	s.mcp.AddTool(getInsightsTool, s.handleGetInsights)
	s.mcp.AddTool(runPredictionTool, s.handleRunPrediction)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
