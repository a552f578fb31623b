// Package pages renders every application page on the server. A full page
// request returns the layout with a loading placeholder; the placeholder
// then requests the page partial, which runs the session's navigator.
package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/auth"
	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/chat"
	"github.com/ziadkadry99/astroquery/internal/graph"
	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/learning"
	"github.com/ziadkadry99/astroquery/internal/markdown"
	"github.com/ziadkadry99/astroquery/internal/prefs"
	"github.com/ziadkadry99/astroquery/internal/quiz"
	"github.com/ziadkadry99/astroquery/internal/research"
	"github.com/ziadkadry99/astroquery/internal/router"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/session"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

// partialPrefix is where page partials are served.
const partialPrefix = "/p"

// Summarizer produces publication summaries.
type Summarizer interface {
	Summarize(ctx context.Context, pubID string) (*backend.Summary, error)
}

// Deps are the services pages render from.
type Deps struct {
	Summaries  Summarizer
	Search     *search.Service
	Insights   *insights.Service
	Markdown   *markdown.Renderer
	Graph      *graph.Loader
	Learning   *learning.Service
	Tracker    *learning.Tracker
	Quizzes    *quiz.Store
	Simulator  *simulator.Service
	Research   *research.Analyzer
	Auth       *auth.Service
	Chat       *chat.Service
	Prefs      *prefs.Store
	Logger     *zap.Logger
	SessionTTL time.Duration
}

// Site serves pages, partials and page actions.
type Site struct {
	Deps
	tmpl       *template.Template
	table      *router.Table
	renderers  map[router.Page]router.Renderer
	navigators *session.Registry[*router.Navigator]
	graphs     *session.Registry[*graph.Graph]
}

// New parses the templates and builds one renderer per page.
func New(d Deps) (*Site, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Markdown == nil {
		d.Markdown = markdown.New()
	}
	tmpl, err := template.New("pages").
		Funcs(funcs).
		Funcs(template.FuncMap{"markdown": d.Markdown.RenderOrText}).
		Parse(templates)
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}

	s := &Site{Deps: d, tmpl: tmpl, table: router.DefaultTable()}
	s.renderers = map[router.Page]router.Renderer{
		router.PageHome:           router.RendererFunc(s.renderHome),
		router.PageSearch:         router.RendererFunc(s.renderSearch),
		router.PageSummary:        router.RendererFunc(s.renderSummary),
		router.PageInsights:       router.RendererFunc(s.renderInsights),
		router.PageGraph:          router.RendererFunc(s.renderGraph),
		router.PageChat:           router.RendererFunc(s.renderChat),
		router.PageLearn:          router.RendererFunc(s.renderLearn),
		router.PageTopicDetail:    router.RendererFunc(s.renderTopic),
		router.PageLesson:         router.RendererFunc(s.renderLesson),
		router.PageQuiz:           router.RendererFunc(s.renderQuiz),
		router.PageResults:        router.RendererFunc(s.renderResults),
		router.PageSimulator:      router.RendererFunc(s.renderSimulator),
		router.PageDeepResearch:   router.RendererFunc(s.renderResearch),
		router.PageProfile:        router.RendererFunc(s.renderProfile),
		router.PageLogin:          router.RendererFunc(s.renderLogin),
		router.PageSignup:         router.RendererFunc(s.renderSignup),
		router.PageForgotPassword: router.RendererFunc(s.renderForgot),
		router.PageNotFound:       router.RendererFunc(s.renderNotFound),
	}
	s.navigators = session.NewRegistry(session.MaxSessions, d.SessionTTL,
		func(id string) *router.Navigator {
			return router.NewNavigator(s.table, s.renderers, htmxTransitions{}, d.Logger.With(zap.String("session", id)))
		},
		func(_ string, n *router.Navigator) { n.Close() })
	s.graphs = session.NewRegistry(session.MaxSessions, d.SessionTTL,
		func(string) *graph.Graph { return nil }, nil)
	return s, nil
}

// RegisterRoutes mounts pages, partials, actions and assets on r. The
// session middleware must already be installed.
func (s *Site) RegisterRoutes(r chi.Router) {
	r.Get("/static/app.css", serveAsset("text/css; charset=utf-8", cssContent))
	r.Get("/static/app.js", serveAsset("application/javascript; charset=utf-8", jsContent))

	r.Get(partialPrefix, s.handlePartial)
	r.Get(partialPrefix+"/*", s.handlePartial)

	r.Get("/partials/insights/{id}", s.handleInsightsPartial)
	r.Get("/partials/graph", s.handleGraphPartial)

	r.Route("/actions", func(r chi.Router) {
		r.Post("/quiz/{topic}/{level}/{op}", s.handleQuizAction)
		r.Post("/simulator/{op}", s.handleSimulatorAction)
		r.Post("/research/{op}", s.handleResearchAction)
		r.Post("/auth/{op}", s.handleAuthAction)
		r.Post("/prefs/chat", s.handleChatToggle)
	})

	r.Get("/", s.handlePage)
	r.Get("/*", s.handlePage)
}

// ChatView renders chat websocket frames with the page templates.
func (s *Site) ChatView() chat.View { return chatView{s} }

// Close releases every session navigator.
func (s *Site) Close() {
	s.navigators.Close()
	s.graphs.Close()
}

var pageTitles = map[router.Page]string{
	router.PageHome:           "Search",
	router.PageSearch:         "Advanced Search",
	router.PageSummary:        "Summary",
	router.PageInsights:       "Insights",
	router.PageGraph:          "Knowledge Graph",
	router.PageChat:           "Chat",
	router.PageLearn:          "Learn",
	router.PageTopicDetail:    "Topic",
	router.PageLesson:         "Lesson",
	router.PageQuiz:           "Quiz",
	router.PageResults:        "Quiz Results",
	router.PageSimulator:      "Mission Simulator",
	router.PageDeepResearch:   "Deep Research",
	router.PageProfile:        "Profile",
	router.PageLogin:          "Log In",
	router.PageSignup:         "Sign Up",
	router.PageForgotPassword: "Reset Password",
	router.PageNotFound:       "Not Found",
}

type layoutData struct {
	Title    string
	Chrome   router.Chrome
	Header   headerData
	Partial  string
	ChatOpen bool
}

type headerData struct {
	LoggedIn bool
	Name     string
	Initials string
	// OOB marks a header sent alongside another fragment.
	OOB bool
}

func (s *Site) header(ctx context.Context, sessionID string) headerData {
	sess, err := s.Prefs.Session(ctx, sessionID)
	if err != nil {
		s.Logger.Warn("reading session blob", zap.Error(err))
	}
	return headerData{
		LoggedIn: s.Auth.LoggedIn(ctx, sessionID),
		Name:     sess.DisplayName(),
		Initials: sess.Initials(),
	}
}

// fragmentOf turns a request path and query into a navigation fragment.
func fragmentOf(p, rawQuery string) string {
	if p == "" {
		p = "/"
	}
	if rawQuery != "" {
		return p + "?" + rawQuery
	}
	return p
}

// partialURL is the partial request that renders match.
func partialURL(m router.Match) string {
	u := partialPrefix + m.Path
	if m.Path == "/" {
		u = partialPrefix + "/"
	}
	if q := m.Query.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func (s *Site) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := session.FromContext(ctx)
	match := s.table.Resolve(fragmentOf(r.URL.Path, r.URL.RawQuery))

	sess, _ := s.Prefs.Session(ctx, sid)
	data := layoutData{
		Title:    pageTitles[match.Page],
		Chrome:   router.ChromeFor(match),
		Header:   s.header(ctx, sid),
		Partial:  partialURL(match),
		ChatOpen: !sess.Collapsed(),
	}

	status := http.StatusOK
	if match.Page == router.PageNotFound {
		status = http.StatusNotFound
	}
	s.writeTemplate(w, status, "layout", data)
}

type chromeEvent struct {
	Home bool `json:"home"`
	Fab  bool `json:"fab"`
}

func (s *Site) handlePartial(w http.ResponseWriter, r *http.Request) {
	sid := session.FromContext(r.Context())
	fragment := fragmentOf("/"+chi.URLParam(r, "*"), r.URL.RawQuery)

	ctx, ev := withEvents(r.Context())
	mount := &bufferMount{}
	match, err := s.navigators.Get(sid).Navigate(ctx, fragment, mount)
	if errors.Is(err, router.ErrSuperseded) || errors.Is(err, context.Canceled) {
		// A newer navigation owns the mount; leave the page untouched.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	body := mount.HTML()
	if err != nil {
		s.Logger.Error("page render failed", zap.String("page", string(match.Page)), zap.Error(err))
		body = s.errorPanel(match, err)
	}

	chrome := router.ChromeFor(match)
	ev.add(eventChrome, chromeEvent{Home: chrome.Home, Fab: chrome.FabVisible})
	ev.write(w)

	var buf bytes.Buffer
	buf.WriteString(string(body))
	if err := s.tmpl.ExecuteTemplate(&buf, "nav-oob", chrome); err != nil {
		s.Logger.Error("rendering nav", zap.Error(err))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", "HX-Request")
	w.Write(buf.Bytes())
}

// render executes a named template into HTML.
func (s *Site) render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func (s *Site) writeTemplate(w http.ResponseWriter, status int, name string, data any) {
	html, err := s.render(name, data)
	if err != nil {
		s.Logger.Error("template failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(html))
}

type errorData struct {
	Message string
	Retry   string
}

// userMessage is the text shown for a failed backend call.
func userMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.StatusCode == http.StatusNotFound {
			return "We couldn't find what you were looking for."
		}
	}
	return "Something went wrong while loading this page. Please try again."
}

func (s *Site) errorPanel(match router.Match, err error) template.HTML {
	html, rerr := s.render("error-panel", errorData{Message: userMessage(err), Retry: partialURL(match)})
	if rerr != nil {
		return template.HTML(`<div class="error-state">` + template.HTMLEscapeString(userMessage(err)) + `</div>`)
	}
	return html
}

// load implements the renderer contract: a loading placeholder, then the
// populated view or an error panel whose retry button repeats the request.
// fetch returns the template to render and its data.
func (s *Site) load(ctx context.Context, m router.Mount, match router.Match, fetch func(ctx context.Context) (string, any, error)) error {
	if err := m.Replace(loadingHTML); err != nil {
		return err
	}
	name, data, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.Logger.Warn("page data failed",
			zap.String("page", string(match.Page)),
			zap.String("path", match.Path),
			zap.Error(err))
		return m.Replace(s.errorPanel(match, err))
	}
	html, err := s.render(name, data)
	if err != nil {
		s.Logger.Error("page template failed", zap.String("page", string(match.Page)), zap.Error(err))
		return m.Replace(s.errorPanel(match, err))
	}
	return m.Replace(html)
}

// static renders a view that needs no backend data.
func (s *Site) static(m router.Mount, match router.Match, name string, data any) error {
	html, err := s.render(name, data)
	if err != nil {
		s.Logger.Error("page template failed", zap.String("page", string(match.Page)), zap.Error(err))
		return m.Replace(s.errorPanel(match, err))
	}
	return m.Replace(html)
}

const loadingHTML template.HTML = `<div class="loading" role="status"><div class="spinner"></div><p>Loading…</p></div>`

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write([]byte(body))
	}
}

// actionError writes an inline error for a page action. htmx only swaps
// successful responses, so the status is always 200.
func (s *Site) actionError(w http.ResponseWriter, message string) {
	s.writeTemplate(w, http.StatusOK, "inline-error", strings.TrimSpace(message))
}
