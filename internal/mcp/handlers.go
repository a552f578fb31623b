package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

// handleSearchPublications runs a semantic search with the same parameters
// the search page accepts.
func (s *Server) handleSearchPublications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{"q": {query}}
	if years := request.GetString("years", ""); years != "" {
		params.Set("years", years)
	}
	if sections := request.GetString("sections", ""); sections != "" {
		params.Set("sections", sections)
	}

	res, err := s.Search.Search(ctx, "", search.ParseState(params))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(res.Publications) == 0 {
		return mcp.NewToolResultText("No publications matched the query."), nil
	}

	pubs := res.Publications
	if len(pubs) > limit {
		pubs = pubs[:limit]
	}
	return mcp.NewToolResultText(formatPublications(pubs, res.Warning)), nil
}

// handleGetSummary returns the generated summary of a publication.
func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	sum, err := s.Summaries.Summarize(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to summarize %s: %v", id, err)), nil
	}
	if sum.Summary == "" {
		return mcp.NewToolResultText("No summary available."), nil
	}

	var sb strings.Builder
	if sum.Title != "" {
		sb.WriteString("# " + sum.Title + "\n\n")
	}
	sb.WriteString(sum.Summary)
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetInsights returns the insights text of a publication, served
// from the insights cache when possible.
func (s *Server) handleGetInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	v, err := s.Insights.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load insights: %v", err)), nil
	}
	return mcp.NewToolResultText(v.Text), nil
}

// handleRunPrediction runs the simulator on a scenario built from the
// arguments, starting from the default scenario.
func (s *Server) handleRunPrediction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sc := simulator.DefaultScenario()
	if q := strings.TrimSpace(request.GetString("question", "")); q != "" {
		sc.Question = q
	}
	sc.Organism = splitList(request.GetString("organism", ""))
	sc.Tissue = splitList(request.GetString("tissue", ""))
	sc.Countermeasures = splitList(request.GetString("countermeasures", ""))
	sc.MicrogravityDays = request.GetFloat("microgravity_days", sc.MicrogravityDays)
	sc.RadiationGy = request.GetFloat("radiation_Gy", sc.RadiationGy)

	preds, err := s.Simulator.Run(ctx, sc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prediction failed: %v", err)), nil
	}
	if len(preds) == 0 {
		return mcp.NewToolResultText("The simulator returned no predictions for this scenario."), nil
	}
	return mcp.NewToolResultText(formatPredictions(sc, preds)), nil
}

func splitList(s string) []string {
	out := []string{}
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// formatPublications converts search results into a text format optimized
// for AI agent consumption.
func formatPublications(pubs []backend.Publication, warning string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d publication(s):\n", len(pubs)))
	if warning != "" {
		sb.WriteString("Warning: " + warning + "\n")
	}

	for i, p := range pubs {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("ID: %s\n", p.ID))
		sb.WriteString(fmt.Sprintf("Title: %s\n", p.Title))
		if p.Journal != "" {
			sb.WriteString(fmt.Sprintf("Journal: %s\n", p.Journal))
		}
		if p.Year != "" {
			sb.WriteString(fmt.Sprintf("Year: %s\n", p.Year))
		}
		if len(p.Authors) > 0 {
			sb.WriteString(fmt.Sprintf("Authors: %s\n", strings.Join(p.Authors, ", ")))
		}
		if len(p.Sections) > 0 {
			sb.WriteString(fmt.Sprintf("Sections: %s\n", strings.Join(p.Sections, ", ")))
		}
		if p.Link != "" {
			sb.WriteString(fmt.Sprintf("Link: %s\n", p.Link))
		}
	}

	return sb.String()
}

func formatPredictions(sc backend.Scenario, preds []backend.Prediction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Scenario: %q, %g days microgravity, %g Gy\n", sc.Question, sc.MicrogravityDays, sc.RadiationGy))
	for _, p := range preds {
		sb.WriteString(fmt.Sprintf("- %s: %.1f%%", p.Name(), p.Prob()*100))
		if len(p.CI95) == 2 {
			sb.WriteString(fmt.Sprintf(" (95%% CI %.1f-%.1f%%)", p.CI95[0]*100, p.CI95[1]*100))
		}
		if p.Direction != "" {
			sb.WriteString(", " + p.Direction)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
