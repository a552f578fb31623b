// Package search holds the search state carried in page query strings and
// the service that turns it into backend semantic searches.
package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

// Sections are the publication sections a search can be restricted to.
var Sections = []string{"Immune", "Plants", "Microgravity", "Cellular", "Genomics"}

const (
	DefaultYearFrom = 2005
	DefaultYearTo   = 2021
	// ResultCount is the k sent with every search.
	ResultCount = 20
)

// State is the search form as encoded in the query string.
type State struct {
	Query      string
	YearFrom   int
	YearTo     int
	Sections   []string
	Journal    string
	Restricted bool
}

// DefaultState is an empty search over the full year range.
func DefaultState() State {
	return State{YearFrom: DefaultYearFrom, YearTo: DefaultYearTo}
}

// ParseState reads q, years (e.g. 2010-2020, or year_from and year_to),
// sections (comma separated or repeated), journal and restricted. Unknown
// sections and malformed ranges fall back to defaults.
func ParseState(v url.Values) State {
	s := DefaultState()
	s.Query = strings.TrimSpace(v.Get("q"))
	s.Journal = strings.TrimSpace(v.Get("journal"))
	s.Restricted, _ = strconv.ParseBool(v.Get("restricted"))

	if from, to, ok := parseYears(v.Get("years")); ok {
		s.YearFrom, s.YearTo = from, to
	} else if from, to, ok := parseYears(v.Get("year_from") + "-" + v.Get("year_to")); ok {
		// The search form posts the range as two fields.
		s.YearFrom, s.YearTo = from, to
	}

	var raw []string
	for _, val := range v["sections"] {
		raw = append(raw, strings.Split(val, ",")...)
	}
	s.Sections = normalizeSections(raw)
	return s
}

func parseYears(raw string) (int, int, bool) {
	a, b, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return 0, 0, false
	}
	from, err1 := strconv.Atoi(strings.TrimSpace(a))
	to, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil || from <= 0 || to <= 0 {
		return 0, 0, false
	}
	if from > to {
		from, to = to, from
	}
	return from, to, true
}

// normalizeSections maps values case-insensitively onto Sections, dropping
// unknowns and duplicates, in canonical order.
func normalizeSections(raw []string) []string {
	want := map[string]bool{}
	for _, r := range raw {
		want[strings.ToLower(strings.TrimSpace(r))] = true
	}
	var out []string
	for _, s := range Sections {
		if want[strings.ToLower(s)] {
			out = append(out, s)
		}
	}
	return out
}

// HasSection reports whether name is selected.
func (s State) HasSection(name string) bool {
	for _, sec := range s.Sections {
		if strings.EqualFold(sec, name) {
			return true
		}
	}
	return false
}

// Years is the years parameter value.
func (s State) Years() string { return fmt.Sprintf("%d-%d", s.YearFrom, s.YearTo) }

// Values encodes the state for a page URL.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Query != "" {
		v.Set("q", s.Query)
	}
	v.Set("years", s.Years())
	if len(s.Sections) > 0 {
		lower := make([]string, len(s.Sections))
		for i, sec := range s.Sections {
			lower[i] = strings.ToLower(sec)
		}
		v.Set("sections", strings.Join(lower, ","))
	}
	if s.Journal != "" {
		v.Set("journal", s.Journal)
	}
	if s.Restricted {
		v.Set("restricted", "true")
	}
	return v
}

// Params converts the state into a backend request.
func (s State) Params() backend.SearchParams {
	suggestions := true
	p := backend.SearchParams{
		Query:       s.Query,
		K:           ResultCount,
		Sections:    s.Sections,
		YearFrom:    s.YearFrom,
		YearTo:      s.YearTo,
		Journal:     s.Journal,
		Suggestions: &suggestions,
	}
	if s.Restricted {
		restricted := true
		p.Restricted = &restricted
	}
	return p
}
