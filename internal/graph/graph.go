// Package graph builds the knowledge-graph view from backend entities and
// triples.
package graph

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

// DefaultLimit is the node limit when none is chosen.
const DefaultLimit = 300

// Limits are the selectable node limits. Zero shows every node.
var Limits = []int{100, 300, 500, 1000, 0}

// Node is an entity in the graph.
type Node struct {
	ID     string
	Label  string
	Type   string
	Degree int
}

// Edge is a triple whose subject and object both resolved to nodes.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Relation string
}

// Graph is the full joined graph.
type Graph struct {
	Nodes   []Node
	Edges   []Edge
	Stats   backend.GraphStats
	Skipped int
}

// Source is the subset of the backend client the loader needs.
type Source interface {
	Entities(ctx context.Context) ([]backend.Entity, error)
	Triples(ctx context.Context) ([]backend.Triple, error)
	GraphStats(ctx context.Context) (*backend.GraphStats, error)
}

// Loader fetches graph data.
type Loader struct {
	src    Source
	logger *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	return &Loader{src: src, logger: logger}
}

// Load fetches entities, triples and stats concurrently and joins them.
// The first failure cancels the other requests.
func (l *Loader) Load(ctx context.Context) (*Graph, error) {
	var (
		entities []backend.Entity
		triples  []backend.Triple
		stats    *backend.GraphStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entities, err = l.src.Entities(gctx)
		if err != nil {
			return fmt.Errorf("loading entities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		triples, err = l.src.Triples(gctx)
		if err != nil {
			return fmt.Errorf("loading triples: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = l.src.GraphStats(gctx)
		if err != nil {
			return fmt.Errorf("loading graph stats: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := Build(entities, triples)
	if stats != nil {
		graph.Stats = *stats
	}
	if graph.Skipped > 0 {
		l.logger.Debug("triples skipped",
			zap.Int("skipped", graph.Skipped),
			zap.Int("triples", len(triples)))
	}
	return graph, nil
}

// Build joins entities and triples. Triples are matched to entities by
// case-insensitive text; triples with an unknown end are skipped. Nodes are
// ordered by degree, most connected first.
func Build(entities []backend.Entity, triples []backend.Triple) *Graph {
	g := &Graph{Nodes: make([]Node, 0, len(entities))}

	byText := make(map[string]int, len(entities))
	for _, e := range entities {
		typ := e.Type
		if typ == "" {
			typ = "unknown"
		}
		g.Nodes = append(g.Nodes, Node{ID: "entity_" + e.ID.String(), Label: e.Text, Type: typ})
		byText[strings.ToLower(e.Text)] = len(g.Nodes) - 1
	}

	for _, t := range triples {
		si, ok1 := byText[strings.ToLower(t.Subject)]
		oi, ok2 := byText[strings.ToLower(t.Object)]
		if !ok1 || !ok2 {
			g.Skipped++
			continue
		}
		g.Nodes[si].Degree++
		g.Nodes[oi].Degree++
		g.Edges = append(g.Edges, Edge{
			ID:       "triple_" + t.ID.String(),
			Source:   g.Nodes[si].ID,
			Target:   g.Nodes[oi].ID,
			Relation: t.Relation,
		})
	}

	sort.SliceStable(g.Nodes, func(i, j int) bool {
		return g.Nodes[i].Degree > g.Nodes[j].Degree
	})
	return g
}

// Types returns the distinct entity types, sorted.
func (g *Graph) Types() []string {
	seen := map[string]bool{}
	var types []string
	for _, n := range g.Nodes {
		if !seen[n.Type] {
			seen[n.Type] = true
			types = append(types, n.Type)
		}
	}
	sort.Strings(types)
	return types
}

// Filter narrows the visible graph.
type Filter struct {
	Limit int
	Type  string
	Query string
}

// ParseFilter reads limit, type and q. Unknown limits fall back to
// DefaultLimit; "all" selects every node.
func ParseFilter(q url.Values) Filter {
	f := Filter{Limit: DefaultLimit, Type: q.Get("type"), Query: strings.TrimSpace(q.Get("q"))}
	switch l := q.Get("limit"); l {
	case "":
	case "all":
		f.Limit = 0
	default:
		if n, err := strconv.Atoi(l); err == nil {
			for _, allowed := range Limits {
				if n == allowed {
					f.Limit = n
				}
			}
		}
	}
	return f
}

// View is the part of a graph that is shown.
type View struct {
	Nodes []Node
	Edges []Edge
	Total int
}

// Coverage is the percentage of all nodes that are shown.
func (v *View) Coverage() int {
	if v.Total == 0 {
		return 0
	}
	return len(v.Nodes) * 100 / v.Total
}

// Apply keeps the Limit most connected nodes, then those matching Type and
// Query, and the edges between the remaining nodes.
func (g *Graph) Apply(f Filter) *View {
	nodes := g.Nodes
	if f.Limit > 0 && len(nodes) > f.Limit {
		nodes = nodes[:f.Limit]
	}

	query := strings.ToLower(f.Query)
	visible := make(map[string]bool, len(nodes))
	v := &View{Total: len(g.Nodes)}
	for _, n := range nodes {
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(n.Label), query) {
			continue
		}
		visible[n.ID] = true
		v.Nodes = append(v.Nodes, n)
	}
	for _, e := range g.Edges {
		if visible[e.Source] && visible[e.Target] {
			v.Edges = append(v.Edges, e)
		}
	}
	return v
}
