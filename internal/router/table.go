// Package router maps navigation fragments to pages and sequences page
// activations so that exactly one renderer owns the mount at a time.
package router

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Page identifies a renderer.
type Page string

const (
	PageHome           Page = "home"
	PageSearch         Page = "search"
	PageGraph          Page = "graph"
	PageChat           Page = "chat"
	PageSummary        Page = "summary"
	PageInsights       Page = "insights"
	PageQuiz           Page = "quiz"
	PageResults        Page = "results"
	PageLesson         Page = "lesson"
	PageTopicDetail    Page = "topic"
	PageLearn          Page = "learn"
	PageSimulator      Page = "simulator"
	PageDeepResearch   Page = "deep-research"
	PageProfile        Page = "profile"
	PageLogin          Page = "login"
	PageSignup         Page = "signup"
	PageForgotPassword Page = "forgot-password"
	PageNotFound       Page = "not-found"

	// StateTransitioning is reported by Navigator.State while the
	// home-exit transition runs.
	StateTransitioning Page = "transitioning"
)

// Levels are the lesson difficulty levels accepted in learn paths.
var Levels = []string{"beginner", "intermediate", "advanced"}

// Def declares one route.
//
// Pattern segments are literals, {name} (any one segment), {name:a|b}
// (one segment out of a fixed set) or a trailing ** (any remainder,
// including none).
type Def struct {
	Page    Page
	Pattern string
}

// DefaultDefs is the application route table.
var DefaultDefs = []Def{
	{PageHome, "/"},
	{PageSearch, "/search"},
	{PageGraph, "/graph/**"},
	{PageChat, "/chat"},
	{PageSummary, "/summary/{id}"},
	{PageInsights, "/insights/{id}"},
	{PageQuiz, "/learn/{topic}/{level:beginner|intermediate|advanced}/quiz"},
	{PageResults, "/learn/{topic}/{level:beginner|intermediate|advanced}/results"},
	{PageLesson, "/learn/{topic}/{level:beginner|intermediate|advanced}"},
	{PageTopicDetail, "/learn/{topic}"},
	{PageLearn, "/learn/**"},
	{PageSimulator, "/simulator"},
	{PageDeepResearch, "/deep-research"},
	{PageProfile, "/profile"},
	{PageLogin, "/login"},
	{PageSignup, "/signup"},
	{PageForgotPassword, "/forgot-password"},
}

type route struct {
	page    Page
	pattern string
	glob    string
	params  map[int]string
	score   int
	segs    int
	prefix  bool
	order   int
}

// Table is a compiled, specificity-ordered route table.
type Table struct {
	routes []route
}

// Match is the result of resolving a fragment.
type Match struct {
	Page     Page
	Pattern  string
	Path     string
	Params   map[string]string
	Query    url.Values
	Fragment string
}

// Param returns a captured path segment.
func (m Match) Param(name string) string { return m.Params[name] }

// NewTable compiles defs.
func NewTable(defs ...Def) (*Table, error) {
	t := &Table{}
	for i, d := range defs {
		r, err := compile(d)
		if err != nil {
			return nil, err
		}
		r.order = i
		t.routes = append(t.routes, r)
	}
	sort.SliceStable(t.routes, func(i, j int) bool {
		a, b := t.routes[i], t.routes[j]
		if a.score != b.score {
			return a.score > b.score
		}
		return a.segs > b.segs
	})
	return t, nil
}

// DefaultTable compiles DefaultDefs.
func DefaultTable() *Table {
	t, err := NewTable(DefaultDefs...)
	if err != nil {
		panic(err)
	}
	return t
}

func compile(d Def) (route, error) {
	r := route{page: d.Page, pattern: d.Pattern, params: map[int]string{}}
	trimmed := strings.Trim(d.Pattern, "/")
	if trimmed == "" {
		return r, nil
	}
	segs := strings.Split(trimmed, "/")
	globs := make([]string, 0, len(segs))
	for i, seg := range segs {
		switch {
		case seg == "**":
			if i != len(segs)-1 {
				return r, fmt.Errorf("route %s: ** must be the last segment", d.Pattern)
			}
			r.prefix = true
			globs = append(globs, "**")
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			name, alts, restricted := strings.Cut(seg[1:len(seg)-1], ":")
			if name == "" {
				return r, fmt.Errorf("route %s: unnamed capture", d.Pattern)
			}
			r.params[i] = name
			if restricted {
				globs = append(globs, "{"+strings.ReplaceAll(alts, "|", ",")+"}")
				r.score += 2
			} else {
				globs = append(globs, "*")
				r.score++
			}
		default:
			globs = append(globs, seg)
			r.score += 3
		}
	}
	r.glob = strings.Join(globs, "/")
	if !doublestar.ValidatePattern(r.glob) {
		return r, fmt.Errorf("route %s: invalid pattern", d.Pattern)
	}
	r.segs = len(segs)
	return r, nil
}

func (r route) matches(p string) bool {
	if r.glob == "" {
		return p == ""
	}
	if p == "" && !r.prefix {
		return false
	}
	if ok, _ := doublestar.Match(r.glob, p); ok {
		return true
	}
	if r.prefix {
		ok, _ := doublestar.Match(strings.TrimSuffix(r.glob, "/**"), p)
		return ok
	}
	return false
}

// ParseFragment splits a fragment such as "#/learn?tab=badges" into its
// cleaned path (no leading or trailing slash) and query. A trailing
// "#anchor" becomes the tab query parameter when none is set.
func ParseFragment(fragment string) (string, url.Values) {
	f := strings.TrimPrefix(strings.TrimSpace(fragment), "#")

	var anchor string
	if i := strings.Index(f, "#"); i >= 0 {
		f, anchor = f[:i], f[i+1:]
	}

	rawPath, rawQuery, _ := strings.Cut(f, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	if anchor != "" && query.Get("tab") == "" {
		query.Set("tab", anchor)
	}

	p := strings.Trim(path.Clean("/"+rawPath), "/")
	return p, query
}

// Resolve returns the most specific route matching fragment, or a
// PageNotFound match.
func (t *Table) Resolve(fragment string) Match {
	p, query := ParseFragment(fragment)
	m := Match{Page: PageNotFound, Path: "/" + p, Query: query, Fragment: fragment, Params: map[string]string{}}
	for _, r := range t.routes {
		if !r.matches(p) {
			continue
		}
		m.Page = r.page
		m.Pattern = r.pattern
		if len(r.params) > 0 {
			segs := strings.Split(p, "/")
			for i, name := range r.params {
				m.Params[name] = segs[i]
			}
		}
		return m
	}
	return m
}

// Candidates lists every page whose pattern matches fragment, most
// specific first.
func (t *Table) Candidates(fragment string) []Page {
	p, _ := ParseFragment(fragment)
	var pages []Page
	for _, r := range t.routes {
		if r.matches(p) {
			pages = append(pages, r.page)
		}
	}
	return pages
}

// Href builds the link for a page, substituting params into its pattern.
func Href(page Page, params map[string]string) string {
	for _, d := range DefaultDefs {
		if d.Page != page {
			continue
		}
		segs := strings.Split(strings.Trim(d.Pattern, "/"), "/")
		out := make([]string, 0, len(segs))
		for _, seg := range segs {
			switch {
			case seg == "**":
			case strings.HasPrefix(seg, "{"):
				name, _, _ := strings.Cut(seg[1:len(seg)-1], ":")
				out = append(out, url.PathEscape(params[name]))
			default:
				out = append(out, seg)
			}
		}
		return "/" + strings.Join(out, "/")
	}
	return "/"
}
