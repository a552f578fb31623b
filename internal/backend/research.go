package backend

import (
	"context"
	"net/http"
)

// ResearchRequest is a paper submitted for novelty analysis.
type ResearchRequest struct {
	Title    string            `json:"title"`
	Sections map[string]string `json:"sections"`
}

// SectionResult scores one section of the paper.
type SectionResult struct {
	SectionName  string  `json:"section_name"`
	FinalNovelty float64 `json:"final_novelty"`
	Feedback     string  `json:"feedback"`
}

// Analysis is the body of /research/analyze.
type Analysis struct {
	OverallNovelty float64         `json:"overall_novelty"`
	SectionResults []SectionResult `json:"section_results"`
	MetaSummary    string          `json:"meta_summary"`
}

// AnalyzeResearch submits a paper. The caller owns the deadline.
func (c *Client) AnalyzeResearch(ctx context.Context, req ResearchRequest) (*Analysis, error) {
	var a Analysis
	if err := c.do(ctx, http.MethodPost, "/research/analyze", nil, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
