package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/markdown"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

// fakeAPI records the last request and answers with canned bodies.
type fakeAPI struct {
	mu    sync.Mutex
	query url.Values
	body  map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.query = r.URL.Query()
	if r.Method == http.MethodPost {
		f.body = map[string]any{}
		json.NewDecoder(r.Body).Decode(&f.body)
	}
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/semantic-search":
		if r.URL.Query().Get("q") == "nothing" {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`{"results":[
			{"id":1,"title":"Bone loss","journal":"NPJ","year":2015,"link":"https://example.org/1"},
			{"id":2,"title":"Muscle atrophy","year":"2018"},
			{"id":3,"title":"Plant growth","year":"2019"}]}`))
	case strings.HasPrefix(r.URL.Path, "/summarize/"):
		w.Write([]byte(`{"title":"Bone loss","summary":"Bones weaken in orbit."}`))
	case strings.HasPrefix(r.URL.Path, "/insights/"):
		w.Write([]byte(`{"insights":""}`))
	case r.URL.Path == "/sim/run":
		w.Write([]byte(`[{"outcome":"bone_density_loss","probability":0.72,"ci95":[0.6,0.8],"direction":"increase"}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestServer(t *testing.T) (*Server, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	client := backend.New(srv.URL, logger)
	return NewServer(Deps{
		Search:    search.NewService(client, nil, logger),
		Summaries: client,
		Insights:  insights.NewService(client, 8, time.Minute, markdown.New(), logger),
		Simulator: simulator.NewService(client, nil, logger),
	}), api
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"search_publications", searchPublicationsTool, "search_publications"},
		{"get_summary", getSummaryTool, "get_summary"},
		{"get_insights", getInsightsTool, "get_insights"},
		{"run_prediction", runPredictionTool, "run_prediction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
}

func TestHandleSearchPublications(t *testing.T) {
	srv, api := newTestServer(t)
	ctx := context.Background()

	t.Run("search with filters", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"query":    "bone",
			"years":    "2010-2020",
			"sections": "immune,plants",
			"limit":    2,
		}

		result, err := srv.handleSearchPublications(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "Found 2 publication(s)") {
			t.Errorf("limit not applied:\n%s", text)
		}
		if !strings.Contains(text, "Link: https://example.org/1") {
			t.Errorf("missing link:\n%s", text)
		}
		api.mu.Lock()
		q := api.query
		api.mu.Unlock()
		if q.Get("year_from") != "2010" || q.Get("year_to") != "2020" {
			t.Errorf("years = %s-%s, want 2010-2020", q.Get("year_from"), q.Get("year_to"))
		}
		if got := q["section"]; len(got) != 2 {
			t.Errorf("sections = %v, want two", got)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchPublications(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("no results", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "nothing"}

		result, err := srv.handleSearchPublications(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})
}

func TestHandleGetSummaryAndInsights(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": "1"}

	result, err := srv.handleGetSummary(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "# Bone loss") || !strings.Contains(text, "Bones weaken") {
		t.Errorf("summary = %q", text)
	}

	result, err = srv.handleGetInsights(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); text != insights.Empty {
		t.Errorf("insights = %q, want %q", text, insights.Empty)
	}

	missing := mcp.CallToolRequest{}
	missing.Params.Arguments = map[string]any{}
	result, err = srv.handleGetSummary(ctx, missing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error for missing id")
	}
}

func TestHandleRunPrediction(t *testing.T) {
	srv, api := newTestServer(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"organism":          "mouse, human",
		"microgravity_days": 90.0,
	}

	result, err := srv.handleRunPrediction(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "bone_density_loss: 72.0%") {
		t.Errorf("prediction text = %q", text)
	}
	if !strings.Contains(text, "95% CI 60.0-80.0%") {
		t.Errorf("missing interval: %q", text)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if got := api.body["question"]; got != "microgravity bone" {
		t.Errorf("question = %v, want default", got)
	}
	if got := api.body["microgravity_days"]; got != 90.0 {
		t.Errorf("microgravity_days = %v, want 90", got)
	}
	if got, _ := api.body["organism"].([]any); len(got) != 2 {
		t.Errorf("organism = %v, want two entries", api.body["organism"])
	}
}
