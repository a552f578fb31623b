package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SearchParams are the query parameters of /semantic-search.
type SearchParams struct {
	Query       string
	K           int
	Sections    []string
	YearFrom    int
	YearTo      int
	Journal     string
	Restricted  *bool
	Suggestions *bool
}

// Values encodes the parameters, omitting unset ones. Sections are sent
// lower-cased, one section parameter per value.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.K > 0 {
		v.Set("k", strconv.Itoa(p.K))
	}
	for _, s := range p.Sections {
		v.Add("section", strings.ToLower(s))
	}
	if p.YearFrom > 0 {
		v.Set("year_from", strconv.Itoa(p.YearFrom))
	}
	if p.YearTo > 0 {
		v.Set("year_to", strconv.Itoa(p.YearTo))
	}
	if p.Journal != "" {
		v.Set("journal", p.Journal)
	}
	if p.Restricted != nil {
		v.Set("restricted", strconv.FormatBool(*p.Restricted))
	}
	if p.Suggestions != nil {
		v.Set("suggestions", strconv.FormatBool(*p.Suggestions))
	}
	return v
}

// Publication is one search hit.
type Publication struct {
	ID       FlexString `json:"id"`
	Title    string     `json:"title"`
	Link     string     `json:"link"`
	Journal  string     `json:"journal"`
	Year     FlexString `json:"year"`
	Sections []string   `json:"sections"`
	Distance *float64   `json:"distance"`
	Authors  []string   `json:"authors"`
	Source   string     `json:"source"`
	Abstract string     `json:"abstract"`
}

// SearchResponse is the body of /semantic-search.
type SearchResponse struct {
	Results     []Publication `json:"results"`
	Suggestions []string      `json:"suggestions"`
	Warning     string        `json:"warning"`
}

// SemanticSearch runs a similarity search over the publication corpus.
func (c *Client) SemanticSearch(ctx context.Context, p SearchParams) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodGet, "/semantic-search", p.Values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Insights returns the generated insights text for a publication.
func (c *Client) Insights(ctx context.Context, pubID string) (string, error) {
	var resp struct {
		Insights string `json:"insights"`
	}
	if err := c.do(ctx, http.MethodGet, "/insights/"+url.PathEscape(pubID), nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Insights, nil
}

// Summary is the body of /summarize/{id}.
type Summary struct {
	ID      FlexString `json:"id"`
	Title   string     `json:"title"`
	Summary string     `json:"summary"`
}

// Summarize asks the backend to summarise a publication.
func (c *Client) Summarize(ctx context.Context, pubID string) (*Summary, error) {
	var s Summary
	if err := c.do(ctx, http.MethodPost, "/summarize/"+url.PathEscape(pubID), nil, struct{}{}, &s); err != nil {
		return nil, fmt.Errorf("summarizing %s: %w", pubID, err)
	}
	if s.ID == "" {
		s.ID = FlexString(pubID)
	}
	return &s, nil
}
