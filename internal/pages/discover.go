package pages

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/router"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/session"
)

type searchView struct {
	Action       string
	Advanced     bool
	State        search.State
	Refine       search.Advanced
	Results      *search.Results
	Publications []backend.Publication
	Sections     []string
	LastQuery    string
}

func (s *Site) searchView(ctx context.Context, match router.Match, advanced bool) (*searchView, error) {
	sid := session.FromContext(ctx)
	st := search.ParseState(match.Query)
	v := &searchView{Action: "/", Advanced: advanced, State: st, Sections: search.Sections}
	if advanced {
		v.Action = "/search"
		v.Refine = search.ParseAdvanced(match.Query)
	}
	if st.Query == "" {
		sess, err := s.Prefs.Session(ctx, sid)
		if err == nil {
			v.LastQuery = sess.LastQuery
		}
	}

	res, err := s.Search.Search(ctx, sid, st)
	if err != nil {
		return nil, err
	}
	v.Results = res
	v.Publications = res.Publications
	if advanced {
		v.Publications = search.Refine(res.Publications, v.Refine)
	}
	return v, nil
}

func (s *Site) renderHome(ctx context.Context, m router.Mount, match router.Match) error {
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v, err := s.searchView(ctx, match, false)
		return "home", v, err
	})
}

func (s *Site) renderSearch(ctx context.Context, m router.Mount, match router.Match) error {
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v, err := s.searchView(ctx, match, true)
		return "search", v, err
	})
}

type summaryView struct {
	ID    string
	Title string
	HTML  template.HTML
}

func (s *Site) renderSummary(ctx context.Context, m router.Mount, match router.Match) error {
	id := match.Param("id")
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		sum, err := s.Summaries.Summarize(ctx, id)
		if err != nil {
			return "", nil, err
		}
		title := sum.Title
		if title == "" {
			title = "Publication " + id
		}
		text := sum.Summary
		if text == "" {
			text = "No summary available."
		}
		return "summary", summaryView{ID: id, Title: title, HTML: s.Markdown.RenderOrText(text)}, nil
	})
}

func (s *Site) renderInsights(ctx context.Context, m router.Mount, match router.Match) error {
	id := match.Param("id")
	if match.Query.Get("refresh") != "" {
		s.Insights.Forget(id)
	}
	return s.load(ctx, m, match, func(ctx context.Context) (string, any, error) {
		v, err := s.Insights.Get(ctx, id)
		return "insights", v, err
	})
}

type insightsModal struct {
	ID    string
	View  *insights.View
	Error string
}

// handleInsightsPartial fills the insights modal opened from a search
// result. refresh drops the cached entry first.
func (s *Site) handleInsightsPartial(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.URL.Query().Get("refresh") != "" {
		s.Insights.Forget(id)
	}
	data := insightsModal{ID: id}
	v, err := s.Insights.Get(r.Context(), id)
	if err != nil {
		s.Logger.Warn("insights failed", zap.String("publication", id), zap.Error(err))
		data.Error = userMessage(err)
	} else {
		data.View = v
	}
	s.writeTemplate(w, http.StatusOK, "insights-modal", data)
}
