// Package simulator holds the mission simulator scenario and its
// backend-triggered actions.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

// Scenario fields accepted by UpdateField.
const (
	FieldQuestion         = "question"
	FieldOrganism         = "organism"
	FieldTissue           = "tissue"
	FieldCountermeasures  = "countermeasures"
	FieldMicrogravityDays = "microgravity_days"
	FieldRadiationGy      = "radiation_Gy"
)

// ErrUnknownField is returned for a field outside the scenario.
var ErrUnknownField = errors.New("unknown scenario field")

// DefaultScenario is the scenario before the user edits anything.
func DefaultScenario() backend.Scenario {
	return backend.Scenario{
		Question:         "microgravity bone",
		Organism:         []string{},
		Tissue:           []string{},
		MicrogravityDays: 30,
		RadiationGy:      0,
		Countermeasures:  []string{},
	}
}

func normalize(s *backend.Scenario) {
	if s.Organism == nil {
		s.Organism = []string{}
	}
	if s.Tissue == nil {
		s.Tissue = []string{}
	}
	if s.Countermeasures == nil {
		s.Countermeasures = []string{}
	}
}

// apply sets one field from form values. Numbers that do not parse become 0.
func apply(s *backend.Scenario, field string, values []string) error {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	switch field {
	case FieldQuestion:
		s.Question = first
	case FieldOrganism:
		s.Organism = nonEmpty(values)
	case FieldTissue:
		s.Tissue = nonEmpty(values)
	case FieldCountermeasures:
		s.Countermeasures = nonEmpty(values)
	case FieldMicrogravityDays:
		s.MicrogravityDays = parseNumber(first)
	case FieldRadiationGy:
		s.RadiationGy = parseNumber(first)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Load returns the stored scenario for a session, or the default.
func (s *Service) Load(ctx context.Context, sessionID string) (backend.Scenario, error) {
	sc := DefaultScenario()
	ok, err := s.prefs.GetJSON(ctx, sessionID, prefs.KeyScenario, &sc)
	if err != nil {
		return DefaultScenario(), err
	}
	if !ok {
		return DefaultScenario(), nil
	}
	normalize(&sc)
	return sc, nil
}

// Save stores the scenario for a session.
func (s *Service) Save(ctx context.Context, sessionID string, sc backend.Scenario) error {
	normalize(&sc)
	return s.prefs.SetJSON(ctx, sessionID, prefs.KeyScenario, sc)
}

// UpdateField changes one field and saves the scenario immediately.
// Concurrent updates of one session's scenario are applied in turn, so
// no field change is lost.
func (s *Service) UpdateField(ctx context.Context, sessionID, field string, values []string) (backend.Scenario, error) {
	defer s.prefs.Lock(sessionID, prefs.KeyScenario)()

	sc, err := s.Load(ctx, sessionID)
	if err != nil {
		return sc, err
	}
	if err := apply(&sc, field, values); err != nil {
		return sc, err
	}
	if err := s.Save(ctx, sessionID, sc); err != nil {
		return sc, fmt.Errorf("saving scenario: %w", err)
	}
	return sc, nil
}

// Reset restores the default scenario.
func (s *Service) Reset(ctx context.Context, sessionID string) (backend.Scenario, error) {
	defer s.prefs.Lock(sessionID, prefs.KeyScenario)()

	if err := s.prefs.Delete(ctx, sessionID, prefs.KeyScenario); err != nil {
		return DefaultScenario(), err
	}
	return DefaultScenario(), nil
}
