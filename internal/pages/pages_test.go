package pages

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/auth"
	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/chat"
	"github.com/ziadkadry99/astroquery/internal/db"
	"github.com/ziadkadry99/astroquery/internal/graph"
	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/learning"
	"github.com/ziadkadry99/astroquery/internal/markdown"
	"github.com/ziadkadry99/astroquery/internal/prefs"
	"github.com/ziadkadry99/astroquery/internal/quiz"
	"github.com/ziadkadry99/astroquery/internal/research"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/session"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

const testSession = "6b1f3c9e-8f43-4d7a-9a57-1c2f0b7d9e11"

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// fakeBackend serves the backend API with canned data.
func fakeBackend() http.Handler {
	r := chi.NewRouter()
	r.Get("/semantic-search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"results": []map[string]any{
				{"id": 7, "title": "Bone loss in microgravity", "journal": "NPJ Microgravity", "year": "2015", "authors": []string{"Smith"}},
				{"id": 8, "title": "Plant roots in orbit", "journal": "Plant Cell", "year": 2019, "authors": []string{"Jones"}},
			},
			"suggestions": []string{"bone density"},
		})
	})
	r.Post("/summarize/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(w, map[string]string{"detail": "summarizer offline"})
			return
		}
		writeJSON(w, map[string]string{"title": "Bone loss in microgravity", "summary": "**Key** finding"})
	})
	r.Get("/insights/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"insights": "Astronauts lose bone."})
	})
	r.Get("/education/lessons", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": "bone", "title": "Bone Health", "level": "beginner"}})
	})
	r.Get("/education/lessons/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"id": chi.URLParam(r, "id"), "title": "Bone Health",
			"content": map[string]any{"blocks": []map[string]any{{"t": "h2", "text": "Why bones weaken"}}}})
	})
	r.Get("/education/lessons/{id}/questions", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "empty" {
			writeJSON(w, []any{})
			return
		}
		writeJSON(w, []map[string]any{
			{"id": 1, "text": "What happens to bone density in orbit?", "choices": []string{"It drops", "It rises"}, "answer": "A", "explanation": "Unloading drives resorption."},
		})
	})
	r.Post("/education/lessons/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/graph/entities", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": 1, "text": "Bone", "type": "tissue"},
			{"id": 2, "text": "Microgravity", "type": "condition"},
			{"id": 3, "text": "Mouse", "type": "organism"},
		})
	})
	r.Get("/graph/triples", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": 1, "subject": "microgravity", "relation": "reduces", "object": "bone"},
			{"id": 2, "subject": "mouse", "relation": "has", "object": "spleen"},
		})
	})
	r.Get("/graph/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{"entities": 3, "triples": 2, "publications": 600})
	})
	r.Get("/sim/schema", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"inputs": map[string]any{
			"organism": map[string]any{"values": []string{"mouse", "human"}},
		}})
	})
	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"token": "tok-1", "user": map[string]string{"name": "Ada Lovelace", "email": "ada@example.com"}})
	})
	return r
}

type testSite struct {
	site    *Site
	handler http.Handler
	prefs   *prefs.Store
	tracker *learning.Tracker
	sim     *simulator.Service
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	api := httptest.NewServer(fakeBackend())
	t.Cleanup(api.Close)

	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	logger := zap.NewNop()
	client := backend.New(api.URL, logger)
	store := prefs.NewStore(database)
	md := markdown.New()
	learn := learning.NewService(client, logger)
	tracker := learning.NewTracker(store, learn, logger)
	sim := simulator.NewService(client, store, logger)

	site, err := New(Deps{
		Summaries:  client,
		Search:     search.NewService(client, store, logger),
		Insights:   insights.NewService(client, 16, time.Minute, md, logger),
		Markdown:   md,
		Graph:      graph.NewLoader(client, logger),
		Learning:   learn,
		Tracker:    tracker,
		Quizzes:    quiz.NewStore(store),
		Simulator:  sim,
		Research:   research.NewAnalyzer(client, time.Second, logger),
		Auth:       auth.NewService(client, store, logger),
		Chat:       chat.NewService(client, chat.NewStore(database), logger),
		Prefs:      store,
		Logger:     logger,
		SessionTTL: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(site.Close)

	r := chi.NewRouter()
	site.RegisterRoutes(r)
	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.ServeHTTP(w, req.WithContext(session.WithID(req.Context(), testSession)))
	})
	return &testSite{site: site, handler: h, prefs: store, tracker: tracker, sim: sim}
}

func (ts *testSite) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (ts *testSite) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func triggers(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := rec.Header().Get("HX-Trigger")
	if raw == "" {
		return nil
	}
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestLayoutLoadsPartial(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.get(t, "/search?q=bone")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="mount"`)
	assert.Contains(t, body, `hx-get="/p/search?q=bone"`)
	assert.Contains(t, body, `<title>Advanced Search · AstroQuery</title>`)
	assert.NotContains(t, body, `ws-connect="/ws/chat?target=fab"`, "chat popup starts collapsed")

	rec = ts.get(t, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `hx-get="/p/no/such/page"`)
}

func TestSearchPartial(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.get(t, "/p/?q=bone")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Bone loss in microgravity")
	assert.Contains(t, body, `href="/summary/7"`)
	assert.Contains(t, body, `hx-get="/partials/insights/8"`)
	assert.Contains(t, body, `id="primary-nav" class="primary-nav" hx-swap-oob="true"`)

	ev := triggers(t, rec)
	require.Contains(t, ev, "aq:chrome")
	var chrome chromeEvent
	require.NoError(t, json.Unmarshal(ev["aq:chrome"], &chrome))
	assert.True(t, chrome.Home)
	assert.True(t, chrome.Fab)

	sess, err := ts.prefs.Session(t.Context(), testSession)
	require.NoError(t, err)
	assert.Equal(t, "bone", sess.LastQuery)
}

func TestAdvancedSearchRefinesLocally(t *testing.T) {
	ts := newTestSite(t)

	body := ts.get(t, "/p/search?q=bone&authors=jones").Body.String()
	assert.Contains(t, body, "Plant roots in orbit")
	assert.NotContains(t, body, "Bone loss in microgravity")
}

func TestLeavingHomeZoomsOut(t *testing.T) {
	ts := newTestSite(t)

	ts.get(t, "/p/")
	rec := ts.get(t, "/p/learn")
	ev := triggers(t, rec)
	assert.Contains(t, ev, "aq:zoom-out")

	var chrome chromeEvent
	require.NoError(t, json.Unmarshal(ev["aq:chrome"], &chrome))
	assert.False(t, chrome.Home)
}

func TestBackendFailureRendersErrorPanel(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.get(t, "/p/summary/500")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "summarizer offline")
	assert.Contains(t, body, `hx-get="/p/summary/500"`, "retry repeats the request")
}

func TestSummaryRendersMarkdown(t *testing.T) {
	ts := newTestSite(t)

	body := ts.get(t, "/p/summary/7").Body.String()
	assert.Contains(t, body, "<strong>Key</strong>")
}

func TestInsightsModal(t *testing.T) {
	ts := newTestSite(t)

	body := ts.get(t, "/partials/insights/7").Body.String()
	assert.Contains(t, body, "Astronauts lose bone.")
	assert.NotContains(t, body, "Cached")

	body = ts.get(t, "/partials/insights/7").Body.String()
	assert.Contains(t, body, "Cached")

	body = ts.get(t, "/partials/insights/7?refresh=1").Body.String()
	assert.NotContains(t, body, "Cached")
}

func TestQuizFlow(t *testing.T) {
	ts := newTestSite(t)
	ctx := t.Context()

	body := ts.get(t, "/p/learn/bone/beginner/quiz").Body.String()
	assert.Contains(t, body, "What happens to bone density in orbit?")
	assert.Contains(t, body, "Question 1 of 1")

	rec := ts.post(t, "/actions/quiz/bone/beginner/answer", url.Values{"choice": {"0"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "choice selected")
	assert.Contains(t, rec.Body.String(), `hx-post="/actions/quiz/bone/beginner/submit"`)

	rec = ts.post(t, "/actions/quiz/bone/beginner/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ev := triggers(t, rec)
	require.Contains(t, ev, "aq:navigate")
	var nav navigateEvent
	require.NoError(t, json.Unmarshal(ev["aq:navigate"], &nav))
	assert.Equal(t, "/learn/bone/beginner/results", nav.Path)

	assert.True(t, ts.tracker.IsCompleted(ctx, testSession, "bone", "beginner"))

	body = ts.get(t, "/p/learn/bone/beginner/results").Body.String()
	assert.Contains(t, body, "1 / 1 (100%)")
	assert.Contains(t, body, "Next level: Intermediate")

	body = ts.get(t, "/p/learn/bone/beginner/results").Body.String()
	assert.Contains(t, body, "No results to show", "results are read once")
}

func TestQuizAnswerSurvivesConcurrentNext(t *testing.T) {
	ts := newTestSite(t)
	ctx := t.Context()
	quizzes := quiz.NewStore(ts.prefs)

	for i := 0; i < 25; i++ {
		require.NoError(t, quizzes.Clear(ctx, testSession))
		ts.get(t, "/p/learn/bone/beginner/quiz")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			ts.post(t, "/actions/quiz/bone/beginner/answer", url.Values{"choice": {"0"}})
		}()
		go func() {
			defer wg.Done()
			ts.post(t, "/actions/quiz/bone/beginner/next", nil)
		}()
		wg.Wait()

		a, err := quizzes.Load(ctx, testSession, "bone", "beginner")
		require.NoError(t, err)
		require.NotNil(t, a)
		require.Equal(t, 0, a.Responses[0], "answer lost on round %d", i)
	}

	rec := ts.post(t, "/actions/quiz/bone/beginner/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, triggers(t, rec), "aq:navigate")
}

func TestQuizSubmitBeforeAnswering(t *testing.T) {
	ts := newTestSite(t)

	ts.get(t, "/p/learn/bone/beginner/quiz")
	rec := ts.post(t, "/actions/quiz/bone/beginner/submit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Answer every question before submitting.")
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
}

func TestQuizWithoutQuestions(t *testing.T) {
	ts := newTestSite(t)

	body := ts.get(t, "/p/learn/empty/beginner/quiz").Body.String()
	assert.Contains(t, body, "This lesson has no quiz questions yet.")
}

func TestLearnTabs(t *testing.T) {
	ts := newTestSite(t)

	body := ts.get(t, "/p/learn").Body.String()
	assert.Contains(t, body, `href="/learn/bone"`)

	body = ts.get(t, "/p/learn?tab=badges").Body.String()
	assert.Contains(t, body, "First Steps")
	assert.Contains(t, body, "Consistent")

	body = ts.get(t, "/p/learn/bone/beginner").Body.String()
	assert.Contains(t, body, "Why bones weaken")
}

func TestGraphFilter(t *testing.T) {
	ts := newTestSite(t)

	body := ts.get(t, "/p/graph").Body.String()
	assert.Contains(t, body, "Showing 3 of 3 entities")
	assert.Contains(t, body, "1 relations reference unknown entities")

	body = ts.get(t, "/partials/graph?type=organism").Body.String()
	assert.Contains(t, body, "Showing 1 of 3 entities")
}

func TestSimulatorFieldIsSaved(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.post(t, "/actions/simulator/field", url.Values{"field": {"microgravity_days"}, "microgravity_days": {"60"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	sc, err := ts.sim.Load(t.Context(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 60.0, sc.MicrogravityDays)

	rec = ts.post(t, "/actions/simulator/field", url.Values{"field": {"bogus"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := ts.get(t, "/p/simulator?q=spleen").Body.String()
	assert.Contains(t, body, `value="spleen"`)
	assert.Contains(t, body, `<option value="mouse">mouse</option>`)
}

func TestResearchValidate(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.post(t, "/actions/research/validate", url.Values{"title": {"Only a title"}})
	assert.Contains(t, rec.Body.String(), "disabled")

	full := url.Values{
		"title": {"T"}, "abstract": {"A"}, "methods": {"M"}, "results": {"R"}, "discussion": {"D"},
	}
	rec = ts.post(t, "/actions/research/validate", full)
	assert.NotContains(t, rec.Body.String(), "disabled")

	rec = ts.post(t, "/actions/research/analyze", url.Values{"title": {"T"}})
	assert.Contains(t, rec.Body.String(), "Abstract is required")
}

func TestLogin(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.post(t, "/actions/auth/login", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email format")

	rec = ts.post(t, "/actions/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"secret123"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome back, Ada Lovelace!")
	assert.Contains(t, body, `id="site-header" class="site-header" hx-swap-oob="true"`)
	assert.Contains(t, body, ">AL</a>")
	assert.Contains(t, triggers(t, rec), "aq:navigate")

	rec = ts.post(t, "/actions/auth/logout", nil)
	assert.Contains(t, rec.Body.String(), "Log in")
	assert.False(t, ts.site.Auth.LoggedIn(t.Context(), testSession))
}

func TestChatToggle(t *testing.T) {
	ts := newTestSite(t)

	body := ts.post(t, "/actions/prefs/chat", nil).Body.String()
	assert.Contains(t, body, `ws-connect="/ws/chat?target=fab"`)

	body = ts.post(t, "/actions/prefs/chat", nil).Body.String()
	assert.NotContains(t, body, "ws-connect")
}

func TestChatViewFrames(t *testing.T) {
	ts := newTestSite(t)
	view := ts.site.ChatView()

	var buf bytes.Buffer
	require.NoError(t, view.Answer(&buf, "chat", &chat.Message{Role: chat.RoleAssistant, Content: "Bone *drops*"}))
	assert.Contains(t, buf.String(), `id="chat-log" hx-swap-oob="beforeend"`)
	assert.Contains(t, buf.String(), "<em>drops</em>")

	buf.Reset()
	require.NoError(t, view.Error(&buf, "somewhere-else", "try again"))
	assert.Contains(t, buf.String(), `id="fab-log"`)

	buf.Reset()
	require.NoError(t, view.Cleared(&buf, "chat"))
	assert.Contains(t, buf.String(), `hx-swap-oob="innerHTML"`)
}

func TestStaticAssets(t *testing.T) {
	ts := newTestSite(t)

	rec := ts.get(t, "/static/app.js")
	assert.Equal(t, "application/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "aqNavigate")
}
