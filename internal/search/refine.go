package search

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

// Sort orders for the advanced search table.
const (
	SortRelevance = "relevance"
	SortYearDesc  = "year_desc"
	SortYearAsc   = "year_asc"
)

// Advanced holds the local filters of the advanced search page.
type Advanced struct {
	Authors string
	Source  string
	Filter  string
	Sort    string
}

// ParseAdvanced reads authors, source, filter and sort.
func ParseAdvanced(v url.Values) Advanced {
	a := Advanced{
		Authors: strings.TrimSpace(v.Get("authors")),
		Source:  strings.TrimSpace(v.Get("source")),
		Filter:  strings.TrimSpace(v.Get("filter")),
		Sort:    v.Get("sort"),
	}
	switch a.Sort {
	case SortYearDesc, SortYearAsc:
	default:
		a.Sort = SortRelevance
	}
	return a
}

// Refine applies the advanced filters and sort to backend results. The
// input slice is not modified.
func Refine(pubs []backend.Publication, a Advanced) []backend.Publication {
	authors := strings.ToLower(a.Authors)
	source := strings.ToLower(a.Source)
	quick := strings.ToLower(a.Filter)

	out := make([]backend.Publication, 0, len(pubs))
	for _, p := range pubs {
		if authors != "" && !strings.Contains(strings.ToLower(strings.Join(p.Authors, " ")), authors) {
			continue
		}
		if source != "" && !strings.Contains(strings.ToLower(p.Source), source) {
			continue
		}
		if quick != "" {
			hay := strings.ToLower(p.Title + " " + p.Abstract + " " + p.Journal)
			if !strings.Contains(hay, quick) {
				continue
			}
		}
		out = append(out, p)
	}

	switch a.Sort {
	case SortYearDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Year.Int() > out[j].Year.Int() })
	case SortYearAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Year.Int() < out[j].Year.Int() })
	}
	return out
}
