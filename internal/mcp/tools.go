package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchPublicationsTool defines the search_publications MCP tool.
var searchPublicationsTool = mcp.NewTool("search_publications",
	mcp.WithDescription("Semantic search over NASA space biology publications. Returns titles, journals, years and links."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithString("years",
		mcp.Description("Publication year range, e.g. 2010-2020 (default 2005-2021)"),
	),
	mcp.WithString("sections",
		mcp.Description("Comma separated sections to search: immune, plants, microgravity, cellular, genomics"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// getSummaryTool defines the get_summary MCP tool.
var getSummaryTool = mcp.NewTool("get_summary",
	mcp.WithDescription("Get the generated summary of a publication."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Publication id as returned by search_publications"),
	),
)

// getInsightsTool defines the get_insights MCP tool.
var getInsightsTool = mcp.NewTool("get_insights",
	mcp.WithDescription("Get key research insights extracted from a publication."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Publication id as returned by search_publications"),
	),
)

// runPredictionTool defines the run_prediction MCP tool.
var runPredictionTool = mcp.NewTool("run_prediction",
	mcp.WithDescription("Predict biological outcomes of a spaceflight scenario with the mission simulator."),
	mcp.WithString("question",
		mcp.Description("Research question the scenario explores (default \"microgravity bone\")"),
	),
	mcp.WithString("organism",
		mcp.Description("Comma separated organisms, e.g. mouse,human"),
	),
	mcp.WithString("tissue",
		mcp.Description("Comma separated tissues, e.g. bone,muscle"),
	),
	mcp.WithString("countermeasures",
		mcp.Description("Comma separated countermeasures, e.g. exercise"),
	),
	mcp.WithNumber("microgravity_days",
		mcp.Description("Days in microgravity (default 30)"),
	),
	mcp.WithNumber("radiation_Gy",
		mcp.Description("Radiation dose in gray (default 0)"),
	),
)
