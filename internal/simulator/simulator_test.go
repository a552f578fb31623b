package simulator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/db"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

type fakeBackend struct {
	evidence    []backend.Evidence
	comparisons []backend.Comparison
	gotK        int
	gotBase     backend.Scenario
	gotVariant  backend.Scenario
	gotMaxDays  int
	gotStep     int
	err         error
}

func (f *fakeBackend) SimSchema(ctx context.Context) (*backend.Schema, error) {
	return &backend.Schema{Inputs: map[string]backend.SchemaInput{
		"organism": {Values: []string{"mouse", "human"}},
	}}, f.err
}

func (f *fakeBackend) SimSearch(ctx context.Context, q string, k int, filters map[string]any) ([]backend.Evidence, error) {
	f.gotK = k
	return f.evidence, f.err
}

func (f *fakeBackend) SimRun(ctx context.Context, s backend.Scenario) ([]backend.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := 0.7
	return []backend.Prediction{{Label: "bone loss", Confidence: &p}}, nil
}

func (f *fakeBackend) SimCurve(ctx context.Context, s backend.Scenario, maxDays, step int) ([]backend.CurvePoint, error) {
	f.gotMaxDays, f.gotStep = maxDays, step
	return []backend.CurvePoint{{Day: 0}, {Day: 10}}, f.err
}

func (f *fakeBackend) SimCompare(ctx context.Context, baseline, variant backend.Scenario) ([]backend.Comparison, error) {
	f.gotBase, f.gotVariant = baseline, variant
	return f.comparisons, f.err
}

func newService(t *testing.T, b Backend) *Service {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewService(b, prefs.NewStore(database), zap.NewNop())
}

func TestConcurrentFieldUpdatesAreKept(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	s := NewService(&fakeBackend{}, prefs.NewStore(database), zap.NewNop())
	ctx := t.Context()

	const sessions = 20
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		sid := fmt.Sprintf("sess-%d", i)
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := s.UpdateField(ctx, sid, FieldQuestion, []string{"spleen " + sid})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.UpdateField(ctx, sid, FieldMicrogravityDays, []string{"90"})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.UpdateField(ctx, sid, FieldOrganism, []string{"mouse"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		sid := fmt.Sprintf("sess-%d", i)
		sc, err := s.Load(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "spleen "+sid, sc.Question, sid)
		assert.Equal(t, 90.0, sc.MicrogravityDays, sid)
		assert.Equal(t, []string{"mouse"}, sc.Organism, sid)
	}
}

func f64(v float64) *float64 { return &v }

func TestScenarioRoundTrip(t *testing.T) {
	s := newService(t, &fakeBackend{})
	ctx := t.Context()

	sc, err := s.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), sc)

	require.NoError(t, s.Save(ctx, "sess", DefaultScenario()))
	sc, err = s.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), sc)
	assert.NotNil(t, sc.Organism)

	edited := backend.Scenario{
		Question:         "radiation heart",
		Organism:         []string{"mouse"},
		Tissue:           []string{},
		MicrogravityDays: 90,
		RadiationGy:      0.5,
		Countermeasures:  []string{"exercise", "diet"},
	}
	require.NoError(t, s.Save(ctx, "sess", edited))
	sc, err = s.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, edited, sc)
}

func TestUpdateField(t *testing.T) {
	s := newService(t, &fakeBackend{})
	ctx := t.Context()

	_, err := s.UpdateField(ctx, "sess", FieldOrganism, []string{"mouse", " ", "human"})
	require.NoError(t, err)
	_, err = s.UpdateField(ctx, "sess", FieldMicrogravityDays, []string{"abc"})
	require.NoError(t, err)
	sc, err := s.UpdateField(ctx, "sess", FieldRadiationGy, []string{"1.5"})
	require.NoError(t, err)

	assert.Equal(t, []string{"mouse", "human"}, sc.Organism)
	assert.Zero(t, sc.MicrogravityDays)
	assert.Equal(t, 1.5, sc.RadiationGy)

	stored, err := s.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, sc, stored)

	_, err = s.UpdateField(ctx, "sess", "gravity", []string{"1"})
	assert.ErrorIs(t, err, ErrUnknownField)

	sc, err = s.Reset(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), sc)
	stored, err = s.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), stored)
}

func TestEvidence(t *testing.T) {
	b := &fakeBackend{evidence: []backend.Evidence{
		{Text: strings.Repeat("a", 250)},
		{ID: "p7", Snippet: "short", Score: f64(0.9)},
	}}
	s := newService(t, b)

	got, err := s.Evidence(t.Context(), DefaultScenario())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 8, b.gotK)
	assert.Equal(t, "1", got[0].ID)
	assert.Len(t, got[0].Text, 203)
	assert.Equal(t, "p7", got[1].ID)
	assert.Equal(t, "short", got[1].Text)
}

func TestRunAndCurve(t *testing.T) {
	b := &fakeBackend{}
	s := newService(t, b)

	preds, err := s.Run(t.Context(), DefaultScenario())
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "bone loss", preds[0].Name())
	assert.Equal(t, 0.7, preds[0].Prob())

	points, err := s.Curve(t.Context(), DefaultScenario())
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, 120, b.gotMaxDays)
	assert.Equal(t, 10, b.gotStep)
}

func TestCompareSortsByDelta(t *testing.T) {
	b := &fakeBackend{comparisons: []backend.Comparison{
		{Outcome: "small", Delta: f64(0.01)},
		{Outcome: "drop", Baseline: f64(0.8), Variant: f64(0.2)},
		{Outcome: "rise", BaselineProb: f64(0.1), VariantProb: f64(0.4)},
	}}
	s := newService(t, b)

	rows, err := s.Compare(t.Context(), DefaultScenario(), 180, 1)
	require.NoError(t, err)
	names := []string{rows[0].Name(), rows[1].Name(), rows[2].Name()}
	assert.Equal(t, []string{"drop", "rise", "small"}, names)

	assert.Equal(t, 30.0, b.gotBase.MicrogravityDays)
	assert.Equal(t, 180.0, b.gotVariant.MicrogravityDays)
	assert.Equal(t, 1.0, b.gotVariant.RadiationGy)
}

func TestActionErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	s := newService(t, &fakeBackend{err: boom})

	_, err := s.Run(t.Context(), DefaultScenario())
	assert.ErrorIs(t, err, boom)
	_, err = s.Schema(t.Context())
	assert.ErrorIs(t, err, boom)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abc", 2))
	assert.Equal(t, "é...", Truncate("éé", 1))
}
