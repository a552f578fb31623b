// Package research submits papers for novelty analysis.
package research

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

// Form field names.
const (
	FieldTitle      = "title"
	FieldAbstract   = "abstract"
	FieldMethods    = "methods"
	FieldResults    = "results"
	FieldDiscussion = "discussion"
)

// Paper is a research paper split into the sections the backend scores.
type Paper struct {
	Title      string
	Abstract   string
	Methods    string
	Results    string
	Discussion string
}

// ParsePaper reads a paper from form values, trimming every field.
func ParsePaper(form url.Values) Paper {
	get := func(k string) string { return strings.TrimSpace(form.Get(k)) }
	return Paper{
		Title:      get(FieldTitle),
		Abstract:   get(FieldAbstract),
		Methods:    get(FieldMethods),
		Results:    get(FieldResults),
		Discussion: get(FieldDiscussion),
	}
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}

// Validate reports every empty field, or nil when the paper can be sent.
func (p Paper) Validate() FieldErrors {
	fe := FieldErrors{}
	required := []struct{ field, value, label string }{
		{FieldTitle, p.Title, "Title"},
		{FieldAbstract, p.Abstract, "Abstract"},
		{FieldMethods, p.Methods, "Methods"},
		{FieldResults, p.Results, "Results"},
		{FieldDiscussion, p.Discussion, "Discussion"},
	}
	for _, r := range required {
		if r.value == "" {
			fe[r.field] = r.label + " is required"
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Request converts the paper to the backend payload.
func (p Paper) Request() backend.ResearchRequest {
	return backend.ResearchRequest{
		Title: p.Title,
		Sections: map[string]string{
			FieldAbstract:   p.Abstract,
			FieldMethods:    p.Methods,
			FieldResults:    p.Results,
			FieldDiscussion: p.Discussion,
		},
	}
}
