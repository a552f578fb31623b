package simulator

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

const (
	evidenceCount = 8
	snippetLength = 200
	curveMaxDays  = 120
	curveStep     = 10
)

// Backend is the subset of the backend client the simulator calls.
type Backend interface {
	SimSchema(ctx context.Context) (*backend.Schema, error)
	SimSearch(ctx context.Context, q string, k int, filters map[string]any) ([]backend.Evidence, error)
	SimRun(ctx context.Context, s backend.Scenario) ([]backend.Prediction, error)
	SimCurve(ctx context.Context, s backend.Scenario, maxDays, step int) ([]backend.CurvePoint, error)
	SimCompare(ctx context.Context, baseline, variant backend.Scenario) ([]backend.Comparison, error)
}

// Service runs simulator actions for a session.
type Service struct {
	backend Backend
	prefs   *prefs.Store
	logger  *zap.Logger
}

// NewService creates a simulator service.
func NewService(b Backend, p *prefs.Store, logger *zap.Logger) *Service {
	return &Service{backend: b, prefs: p, logger: logger}
}

// Schema returns the selectable organism, tissue and countermeasure values.
func (s *Service) Schema(ctx context.Context) (*backend.Schema, error) {
	schema, err := s.backend.SimSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading simulator schema: %w", err)
	}
	return schema, nil
}

// Snippet is an evidence passage ready for display.
type Snippet struct {
	ID    string
	Score *float64
	Text  string
}

// Evidence retrieves passages for the scenario question.
func (s *Service) Evidence(ctx context.Context, sc backend.Scenario) ([]Snippet, error) {
	ev, err := s.backend.SimSearch(ctx, sc.Question, evidenceCount, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving evidence: %w", err)
	}
	out := make([]Snippet, 0, len(ev))
	for i, e := range ev {
		id := e.ID.String()
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		text := e.Text
		if text == "" {
			text = e.Snippet
		}
		out = append(out, Snippet{ID: id, Score: e.Score, Text: Truncate(text, snippetLength)})
	}
	return out, nil
}

// Run predicts outcomes for the scenario.
func (s *Service) Run(ctx context.Context, sc backend.Scenario) ([]backend.Prediction, error) {
	preds, err := s.backend.SimRun(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("running prediction: %w", err)
	}
	return preds, nil
}

// Curve predicts outcomes every ten days up to day 120.
func (s *Service) Curve(ctx context.Context, sc backend.Scenario) ([]backend.CurvePoint, error) {
	points, err := s.backend.SimCurve(ctx, sc, curveMaxDays, curveStep)
	if err != nil {
		return nil, fmt.Errorf("computing curve: %w", err)
	}
	return points, nil
}

// Compare runs the scenario against a variant with different exposure and
// orders outcomes by the size of the change, largest first.
func (s *Service) Compare(ctx context.Context, baseline backend.Scenario, days, radiation float64) ([]backend.Comparison, error) {
	variant := baseline
	variant.MicrogravityDays = days
	variant.RadiationGy = radiation

	rows, err := s.backend.SimCompare(ctx, baseline, variant)
	if err != nil {
		return nil, fmt.Errorf("comparing scenarios: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return math.Abs(rows[i].DeltaValue()) > math.Abs(rows[j].DeltaValue())
	})
	return rows, nil
}

// Truncate cuts s to n runes and marks the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
