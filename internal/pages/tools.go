package pages

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/graph"
	"github.com/ziadkadry99/astroquery/internal/research"
	"github.com/ziadkadry99/astroquery/internal/router"
	"github.com/ziadkadry99/astroquery/internal/session"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

type graphView struct {
	Stats   backend.GraphStats
	Skipped int
	Types   []string
	Limits  []int
	Filter  graph.Filter
	View    *graph.View
}

// element is a cytoscape node or edge.
type element struct {
	Data map[string]string `json:"data"`
}

// Elements is the visible graph in the format the browser graph library
// draws.
func (v graphView) Elements() []element {
	out := make([]element, 0, len(v.View.Nodes)+len(v.View.Edges))
	for _, n := range v.View.Nodes {
		out = append(out, element{Data: map[string]string{"id": n.ID, "label": n.Label, "type": n.Type}})
	}
	for _, e := range v.View.Edges {
		out = append(out, element{Data: map[string]string{"id": e.ID, "source": e.Source, "target": e.Target, "label": e.Relation}})
	}
	return out
}

func newGraphView(g *graph.Graph, f graph.Filter) graphView {
	return graphView{
		Stats:   g.Stats,
		Skipped: g.Skipped,
		Types:   g.Types(),
		Limits:  graph.Limits,
		Filter:  f,
		View:    g.Apply(f),
	}
}

func (s *Site) renderGraph(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		g, err := s.Graph.Load(ctx)
		if err != nil {
			return "", nil, err
		}
		s.graphs.Set(sid, g)
		return "graph", newGraphView(g, graph.ParseFilter(match.Query)), nil
	})
}

// handleGraphPartial re-filters the graph the session last loaded, loading
// it again if it has expired.
func (s *Site) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	g, ok := s.graphs.Peek(sid)
	if !ok || g == nil {
		var err error
		if g, err = s.Graph.Load(ctx); err != nil {
			s.Logger.Warn("graph reload failed", zap.Error(err))
			s.actionError(w, userMessage(err))
			return
		}
		s.graphs.Set(sid, g)
	}
	s.writeTemplate(w, http.StatusOK, "graph-view", newGraphView(g, graph.ParseFilter(r.URL.Query())))
}

type simulatorView struct {
	Schema   *backend.Schema
	Scenario backend.Scenario
}

// Has reports whether value is selected for a multi-select field.
func (v simulatorView) Has(field, value string) bool {
	var list []string
	switch field {
	case simulator.FieldOrganism:
		list = v.Scenario.Organism
	case simulator.FieldTissue:
		list = v.Scenario.Tissue
	case simulator.FieldCountermeasures:
		list = v.Scenario.Countermeasures
	}
	for _, x := range list {
		if x == value {
			return true
		}
	}
	return false
}

// selectView is one multi-select of the scenario form.
type selectView struct {
	Field    string
	Options  []string
	selected func(string) bool
}

func (v selectView) Selected(value string) bool { return v.selected(value) }

// Select builds the multi-select for field from the schema values.
func (v simulatorView) Select(field string) selectView {
	sv := selectView{Field: field, selected: func(value string) bool { return v.Has(field, value) }}
	if v.Schema != nil {
		sv.Options = v.Schema.Values(field)
	}
	return sv
}

func (s *Site) renderSimulator(ctx context.Context, m router.Mount, match router.Match) error {
	sid := session.FromContext(ctx)
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		var v simulatorView
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			v.Schema, err = s.Simulator.Schema(gctx)
			return err
		})
		g.Go(func() (err error) {
			v.Scenario, err = s.Simulator.Load(gctx, sid)
			if err != nil {
				return err
			}
			if q := strings.TrimSpace(match.Query.Get("q")); q != "" {
				v.Scenario, err = s.Simulator.UpdateField(gctx, sid, simulator.FieldQuestion, []string{q})
			}
			return err
		})
		if err := g.Wait(); err != nil {
			return "", nil, err
		}
		return "simulator", v, nil
	})
}

type compareView struct {
	Days      float64
	Radiation float64
	Rows      []backend.Comparison
}

// handleSimulatorAction saves a scenario field or runs one of the
// simulator's backend actions against the stored scenario.
func (s *Site) handleSimulatorAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	op := chi.URLParam(r, "op")
	if err := r.ParseForm(); err != nil {
		s.actionError(w, "Invalid form submission.")
		return
	}

	switch op {
	case "field":
		field := r.Form.Get("field")
		if _, err := s.Simulator.UpdateField(ctx, sid, field, r.Form[field]); err != nil {
			if errors.Is(err, simulator.ErrUnknownField) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.Logger.Error("saving scenario field", zap.String("field", field), zap.Error(err))
			http.Error(w, "could not save scenario", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	case "reset":
		if _, err := s.Simulator.Reset(ctx, sid); err != nil {
			s.Logger.Error("resetting scenario", zap.Error(err))
			s.actionError(w, "Could not reset the scenario.")
			return
		}
		ev := &events{m: map[string]any{}}
		ev.add(eventNavigate, navigateEvent{Path: "/simulator"})
		ev.add(eventToast, "Scenario reset to defaults.")
		ev.write(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sc, err := s.Simulator.Load(ctx, sid)
	if err != nil {
		s.Logger.Warn("loading scenario, using default", zap.Error(err))
	}

	var (
		name string
		data any
	)
	switch op {
	case "search":
		name = "sim-evidence"
		data, err = s.Simulator.Evidence(ctx, sc)
	case "run":
		name = "sim-predictions"
		data, err = s.Simulator.Run(ctx, sc)
	case "curve":
		name = "sim-curve"
		data, err = s.Simulator.Curve(ctx, sc)
	case "compare":
		cv := compareView{
			Days:      formNumber(r.Form.Get("variant_days"), sc.MicrogravityDays),
			Radiation: formNumber(r.Form.Get("variant_radiation"), sc.RadiationGy),
		}
		cv.Rows, err = s.Simulator.Compare(ctx, sc, cv.Days, cv.Radiation)
		name, data = "sim-compare", cv
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.Logger.Warn("simulator action failed", zap.String("op", op), zap.Error(err))
		s.actionError(w, userMessage(err))
		return
	}
	s.writeTemplate(w, http.StatusOK, name, data)
}

func formNumber(raw string, fallback float64) float64 {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}

type researchView struct {
	Paper    research.Paper
	Errors   research.FieldErrors
	Ready    bool
	Analysis *backend.Analysis
	Error    string
	Timeout  int
}

func (s *Site) renderResearch(ctx context.Context, m router.Mount, match router.Match) error {
	s.Research.Abandon(session.FromContext(ctx))
	return s.static(m, match, "research", researchView{Timeout: int(s.Research.Timeout().Seconds())})
}

// handleResearchAction validates the paper form as it is typed, or submits
// it for analysis.
func (s *Site) handleResearchAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	if err := r.ParseForm(); err != nil {
		s.actionError(w, "Invalid form submission.")
		return
	}
	p := research.ParsePaper(r.Form)
	v := researchView{Paper: p, Timeout: int(s.Research.Timeout().Seconds())}

	switch chi.URLParam(r, "op") {
	case "validate":
		v.Ready = p.Validate() == nil && !s.Research.InFlight(sid)
		s.writeTemplate(w, http.StatusOK, "research-submit", v)
	case "analyze":
		a, err := s.Research.Analyze(ctx, sid, p)
		var fe research.FieldErrors
		switch {
		case err == nil:
			v.Analysis = a
		case errors.As(err, &fe):
			v.Errors = fe
		case errors.Is(err, research.ErrInFlight), errors.Is(err, research.ErrAbandoned), errors.Is(err, context.Canceled):
			w.WriteHeader(http.StatusNoContent)
			return
		default:
			s.Logger.Warn("research analysis failed", zap.Error(err))
			v.Error = s.Research.Message(err)
		}
		s.writeTemplate(w, http.StatusOK, "research-result", v)
	default:
		http.NotFound(w, r)
	}
}
