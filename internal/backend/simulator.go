package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Scenario is the simulator input sent to every prediction endpoint.
type Scenario struct {
	Question         string   `json:"question"`
	Organism         []string `json:"organism"`
	Tissue           []string `json:"tissue"`
	MicrogravityDays float64  `json:"microgravity_days"`
	RadiationGy      float64  `json:"radiation_Gy"`
	Countermeasures  []string `json:"countermeasures"`
}

// SchemaInput lists the allowed values of one scenario field.
type SchemaInput struct {
	Values []string `json:"values"`
}

// Schema is the body of /sim/schema.
type Schema struct {
	Inputs map[string]SchemaInput `json:"inputs"`
}

// Values returns the allowed values of field, or nil.
func (s *Schema) Values(field string) []string {
	if s == nil {
		return nil
	}
	return s.Inputs[field].Values
}

// Evidence is a retrieved passage supporting a scenario.
type Evidence struct {
	ID      FlexString `json:"id"`
	Score   *float64   `json:"score"`
	Text    string     `json:"text"`
	Snippet string     `json:"snippet"`
}

// PredictionEvidence is a sentence backing a prediction.
type PredictionEvidence struct {
	Sentence   string   `json:"sentence"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// Prediction is one predicted outcome. Backends disagree on field names, so
// both spellings are decoded and callers use the accessor methods.
type Prediction struct {
	Outcome     string               `json:"outcome"`
	Label       string               `json:"label"`
	Probability *float64             `json:"probability"`
	Confidence  *float64             `json:"confidence"`
	CI95        []float64            `json:"ci95"`
	Direction   string               `json:"direction"`
	Evidence    []PredictionEvidence `json:"evidence"`
}

// Name returns outcome, falling back to label.
func (p Prediction) Name() string {
	if p.Outcome != "" {
		return p.Outcome
	}
	return p.Label
}

// Prob returns probability, falling back to confidence, then 0.
func (p Prediction) Prob() float64 {
	if p.Probability != nil {
		return *p.Probability
	}
	if p.Confidence != nil {
		return *p.Confidence
	}
	return 0
}

// CurvePoint is the predictions at one day of a time series.
type CurvePoint struct {
	Day         float64      `json:"day"`
	Predictions []Prediction `json:"predictions"`
}

// Comparison is one outcome's probability under two scenarios.
type Comparison struct {
	Outcome      string   `json:"outcome"`
	Label        string   `json:"label"`
	BaselineProb *float64 `json:"baseline_prob"`
	Baseline     *float64 `json:"baseline"`
	VariantProb  *float64 `json:"variant_prob"`
	Variant      *float64 `json:"variant"`
	Delta        *float64 `json:"delta"`
}

// Name returns outcome, falling back to label.
func (c Comparison) Name() string {
	if c.Outcome != "" {
		return c.Outcome
	}
	return c.Label
}

// BaselineValue returns the baseline probability under either spelling.
func (c Comparison) BaselineValue() float64 { return firstOf(c.BaselineProb, c.Baseline) }

// VariantValue returns the variant probability under either spelling.
func (c Comparison) VariantValue() float64 { return firstOf(c.VariantProb, c.Variant) }

// DeltaValue returns delta, computing it when the backend omitted it.
func (c Comparison) DeltaValue() float64 {
	if c.Delta != nil {
		return *c.Delta
	}
	return c.VariantValue() - c.BaselineValue()
}

func firstOf(vals ...*float64) float64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

// SimSchema fetches the allowed scenario values.
func (c *Client) SimSchema(ctx context.Context) (*Schema, error) {
	var s Schema
	if err := c.do(ctx, http.MethodGet, "/sim/schema", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SimSearch retrieves the k passages most relevant to q.
func (c *Client) SimSearch(ctx context.Context, q string, k int, filters map[string]any) ([]Evidence, error) {
	if filters == nil {
		filters = map[string]any{}
	}
	body := map[string]any{"q": q, "k": k, "filters": filters}
	raw, err := c.getList(ctx, "/sim/search", nil, body)
	if err != nil {
		return nil, err
	}
	ev, err := decodeList[Evidence](raw, "results")
	if err != nil {
		return nil, fmt.Errorf("decoding evidence: %w", err)
	}
	return ev, nil
}

// SimRun predicts outcomes for a scenario.
func (c *Client) SimRun(ctx context.Context, s Scenario) ([]Prediction, error) {
	raw, err := c.getList(ctx, "/sim/run", nil, s)
	if err != nil {
		return nil, err
	}
	preds, err := decodeList[Prediction](raw, "predictions")
	if err != nil {
		return nil, fmt.Errorf("decoding predictions: %w", err)
	}
	return preds, nil
}

// SimCurve predicts outcomes every step days up to maxDays.
func (c *Client) SimCurve(ctx context.Context, s Scenario, maxDays, step int) ([]CurvePoint, error) {
	body := map[string]any{"scenario": s, "max_days": maxDays, "step": step}
	raw, err := c.getList(ctx, "/sim/curve", nil, body)
	if err != nil {
		return nil, err
	}
	points, err := decodeList[CurvePoint](raw, "points")
	if err != nil {
		return nil, fmt.Errorf("decoding curve: %w", err)
	}
	return points, nil
}

// SimCompare predicts outcomes for two scenarios side by side.
func (c *Client) SimCompare(ctx context.Context, baseline, variant Scenario) ([]Comparison, error) {
	body := map[string]any{"baseline": baseline, "variant": variant}
	raw, err := c.getList(ctx, "/sim/compare", nil, body)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[Comparison](raw, "comparisons", "results")
	if err != nil {
		return nil, fmt.Errorf("decoding comparison: %w", err)
	}
	return rows, nil
}
