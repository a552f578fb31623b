package pages

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"
	"unicode"
)

var funcs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
	"fixed1": func(f float64) string {
		return fmt.Sprintf("%.1f", f)
	},
	"fixed3": func(f float64) string { return fmt.Sprintf("%.3f", f) },
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"inc":    func(i int) int { return i + 1 },
	"letter": func(i int) string { return string(rune('A' + i)) },
	"json": func(v any) (template.JS, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return template.JS(data), nil
	},
	"pathEscape": url.PathEscape,
	"join":       strings.Join,
	"lower":      strings.ToLower,
	"title": func(s string) string {
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	},
	"date": func(t time.Time) string { return t.Local().Format("Jan 2, 15:04") },
}

// templates holds every page, fragment and layout.
const templates = `
{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · AstroQuery</title>
  <link rel="stylesheet" href="/static/app.css">
  <script src="https://unpkg.com/htmx.org@1.9.12"></script>
  <script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/ws.js"></script>
  <script src="/static/app.js" defer></script>
</head>
<body class="{{if .Chrome.Home}}home{{end}}">
  {{template "header" .Header}}
  <nav id="primary-nav" class="primary-nav">{{template "primary-links" .Chrome}}</nav>
  <nav id="top-nav" class="top-nav">{{template "top-links" .Chrome}}</nav>
  <main id="mount" hx-get="{{.Partial}}" hx-trigger="load" hx-swap="innerHTML">
    <div class="loading" role="status"><div class="spinner"></div><p>Loading…</p></div>
  </main>
  <div id="modal"></div>
  <div id="toast" class="toast" hidden></div>
  {{template "chat-fab" .}}
</body>
</html>{{end}}

{{define "header"}}<header id="site-header" class="site-header"{{if .OOB}} hx-swap-oob="true"{{end}}>
  <a href="/" data-nav class="brand">AstroQuery</a>
  <div class="account">
  {{if .LoggedIn}}
    <a href="/profile" data-nav class="avatar" title="{{.Name}}">{{.Initials}}</a>
    <span class="user-name">{{.Name}}</span>
    <button class="link-button" hx-post="/actions/auth/logout" hx-target="#site-header" hx-swap="outerHTML">Log out</button>
  {{else}}
    <a href="/login" data-nav>Log in</a>
    <a href="/signup" data-nav class="button">Sign up</a>
  {{end}}
  </div>
</header>{{end}}

{{define "top-links"}}{{range .Top}}<a href="{{.Href}}" data-nav{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}{{end}}

{{define "primary-links"}}{{range .Primary}}<a href="{{.Href}}" data-nav{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}{{end}}

{{define "nav-oob"}}<nav id="primary-nav" class="primary-nav" hx-swap-oob="true">{{template "primary-links" .}}</nav>
<nav id="top-nav" class="top-nav" hx-swap-oob="true">{{template "top-links" .}}</nav>{{end}}

{{define "error-panel"}}<div class="error-state" role="alert">
  <p>{{.Message}}</p>
  <button class="button" hx-get="{{.Retry}}" hx-target="#mount" hx-swap="innerHTML">Retry</button>
</div>{{end}}

{{define "inline-error"}}<div class="inline-error" role="alert">{{.}}</div>{{end}}

{{define "not-found"}}<section class="not-found">
  <h1>Page not found</h1>
  <p>Nothing lives at <code>{{.Path}}</code>.</p>
  <a href="/" data-nav class="button">Back to search</a>
</section>{{end}}

{{/* Search */}}

{{define "search-form"}}<form class="search-form" action="{{.Action}}" method="get" data-nav>
  <div class="search-row">
    <input type="search" name="q" value="{{.State.Query}}" placeholder="Search NASA space biology publications" autofocus>
    <button type="submit" class="button">Search</button>
  </div>
  <details class="filters"{{if .Advanced}} open{{end}}>
    <summary>Filters</summary>
    <label>From <input type="number" name="year_from" value="{{.State.YearFrom}}" min="1900" max="2100"></label>
    <label>To <input type="number" name="year_to" value="{{.State.YearTo}}" min="1900" max="2100"></label>
    <fieldset class="sections">
      <legend>Sections</legend>
      {{range .Sections}}<label><input type="checkbox" name="sections" value="{{lower .}}"{{if $.State.HasSection .}} checked{{end}}> {{.}}</label>{{end}}
    </fieldset>
    <label>Journal <input type="text" name="journal" value="{{.State.Journal}}"></label>
    <label><input type="checkbox" name="restricted" value="true"{{if .State.Restricted}} checked{{end}}> Restrict to matching sections</label>
    {{if .Advanced}}
    <label>Authors <input type="text" name="authors" value="{{.Refine.Authors}}"></label>
    <label>Source <input type="text" name="source" value="{{.Refine.Source}}"></label>
    <label>Quick filter <input type="text" name="filter" value="{{.Refine.Filter}}"></label>
    <label>Sort
      <select name="sort">
        <option value="relevance"{{if eq .Refine.Sort "relevance"}} selected{{end}}>Relevance</option>
        <option value="year_desc"{{if eq .Refine.Sort "year_desc"}} selected{{end}}>Newest first</option>
        <option value="year_asc"{{if eq .Refine.Sort "year_asc"}} selected{{end}}>Oldest first</option>
      </select>
    </label>
    {{end}}
  </details>
</form>{{end}}

{{define "publication"}}<article class="publication">
  <h3>{{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a>{{else}}{{.Title}}{{end}}</h3>
  <p class="meta">{{with .Journal}}{{.}} · {{end}}{{.Year}}{{with .Authors}} · {{join . ", "}}{{end}}</p>
  {{with .Sections}}<p class="tags">{{range .}}<span class="tag">{{.}}</span>{{end}}</p>{{end}}
  {{with .Distance}}<p class="score">Distance {{fixed3 (deref .)}}</p>{{end}}
  <div class="actions">
    <a href="/summary/{{pathEscape .ID.String}}" data-nav class="button small">Summary</a>
    <button class="button small secondary" hx-get="/partials/insights/{{pathEscape .ID.String}}" hx-target="#modal" hx-swap="innerHTML">Insights</button>
    <a href="/simulator?q={{.Title}}" data-nav class="button small secondary">Simulate</a>
  </div>
</article>{{end}}

{{define "search-results"}}{{with .Results}}
  {{if .Warning}}<p class="warning">{{.Warning}}</p>{{end}}
  {{with .Suggestions}}<p class="suggestions">Try: {{range .}}<a href="/?q={{.}}" data-nav>{{.}}</a> {{end}}</p>{{end}}
{{end}}
{{if .Results.Searched}}
  {{if .Publications}}
  <p class="count">{{len .Publications}} results for “{{.State.Query}}”</p>
  <div class="results">{{range .Publications}}{{template "publication" .}}{{end}}</div>
  {{else}}
  <p class="empty">No publications matched your search.</p>
  {{end}}
{{else if .LastQuery}}
  <p class="last-query">Your last search: <a href="{{.Action}}?q={{.LastQuery}}" data-nav>{{.LastQuery}}</a></p>
{{end}}{{end}}

{{define "home"}}<section class="hero">
  <h1>Explore space biology research</h1>
  {{template "search-form" .}}
</section>
{{template "search-results" .}}{{end}}

{{define "search"}}<section class="advanced-search">
  <h1>Advanced search</h1>
  {{template "search-form" .}}
</section>
{{template "search-results" .}}{{end}}

{{define "summary"}}<article class="summary">
  <a href="/" data-nav class="back">← Back to search</a>
  <h1>{{.Title}}</h1>
  <div class="markdown">{{.HTML}}</div>
  <button class="button secondary" hx-get="/partials/insights/{{pathEscape .ID}}" hx-target="#modal" hx-swap="innerHTML">Insights</button>
</article>{{end}}

{{define "insights"}}<article class="insights">
  <a href="/" data-nav class="back">← Back to search</a>
  <h1>Insights</h1>
  <div class="markdown">{{.HTML}}</div>
  <a href="/insights/{{pathEscape .ID}}?refresh=1" data-nav class="button small secondary">Refresh</a>
</article>{{end}}

{{define "insights-modal"}}<div class="modal-backdrop" data-close-modal>
  <div class="modal" role="dialog" aria-modal="true">
    <button class="modal-close" data-close-modal aria-label="Close">×</button>
    <h2>Insights</h2>
    {{if .Error}}
      <div class="error-state"><p>{{.Error}}</p>
        <button class="button" hx-get="/partials/insights/{{pathEscape .ID}}?refresh=1" hx-target="#modal" hx-swap="innerHTML">Retry</button>
      </div>
    {{else}}
      <div class="markdown">{{.View.HTML}}</div>
      {{if .View.Cached}}<p class="muted">Cached</p>{{end}}
    {{end}}
  </div>
</div>{{end}}

{{/* Knowledge graph */}}

{{define "graph"}}<section class="graph-page">
  <h1>Knowledge graph</h1>
  <p class="stats">{{.Stats.Entities}} entities · {{.Stats.Triples}} relations · {{.Stats.Publications}} publications</p>
  <form class="graph-filter" hx-get="/partials/graph" hx-target="#graph-view" hx-swap="innerHTML" hx-trigger="change, keyup changed delay:300ms from:input[name=q]">
    <label>Show
      <select name="limit">{{range .Limits}}
        <option value="{{if eq . 0}}all{{else}}{{.}}{{end}}"{{if eq . $.Filter.Limit}} selected{{end}}>{{if eq . 0}}All{{else}}Top {{.}}{{end}}</option>{{end}}
      </select>
    </label>
    <label>Type
      <select name="type">
        <option value="">All types</option>
        {{range .Types}}<option value="{{.}}"{{if eq . $.Filter.Type}} selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <input type="search" name="q" value="{{.Filter.Query}}" placeholder="Find an entity">
  </form>
  <div id="graph-view">{{template "graph-view" .}}</div>
</section>{{end}}

{{define "graph-view"}}<p class="muted">Showing {{len .View.Nodes}} of {{.View.Total}} entities ({{.View.Coverage}}%), {{len .View.Edges}} relations{{if .Skipped}}; {{.Skipped}} relations reference unknown entities{{end}}.</p>
{{if .View.Nodes}}
<div class="graph-canvas"></div>
<script type="application/json" class="graph-data">{{json .Elements}}</script>
{{else}}
<p class="empty">No entities match these filters.</p>
{{end}}{{end}}

{{/* Chat */}}

{{define "chat-msg"}}<div class="msg {{.Role}}" title="{{date .CreatedAt}}">
  {{if eq .Role "assistant"}}<div class="markdown">{{markdown .Content}}</div>{{else}}<p>{{.Content}}</p>{{end}}
  {{with .Citations}}<ul class="citations">{{range .}}<li>{{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a>{{else}}{{.Title}}{{end}}{{with .Journal}} · {{.}}{{end}}{{with .Year.String}} · {{.}}{{end}}</li>{{end}}</ul>{{end}}
</div>{{end}}

{{define "chat-frame"}}<div id="{{.Log}}" hx-swap-oob="beforeend">{{if .Error}}<div class="msg error">{{.Error}}</div>{{else}}{{template "chat-msg" .Message}}{{end}}</div>{{end}}

{{define "chat-cleared"}}<div id="{{.Log}}" class="chat-log" hx-swap-oob="innerHTML"></div>{{end}}

{{define "chat-form"}}<form class="chat-form" ws-send>
  <input type="text" name="message" placeholder="Ask about space biology…" autocomplete="off" required>
  <button type="submit" class="button">Send</button>
</form>
<form class="chat-clear" ws-send><input type="hidden" name="action" value="clear"><button type="submit" class="link-button">Clear conversation</button></form>{{end}}

{{define "chat"}}<section class="chat-page" hx-ext="ws" ws-connect="/ws/chat?target={{.Target}}">
  <h1>Research assistant</h1>
  <div id="chat-log" class="chat-log">{{range .Messages}}{{template "chat-msg" .}}{{end}}</div>
  {{template "chat-form"}}
</section>{{end}}

{{define "chat-fab"}}<div id="chat-fab" class="chat-fab{{if .ChatOpen}} open{{end}}"{{if not .Chrome.FabVisible}} hidden{{end}}>
  {{if .ChatOpen}}<div class="chat-popup" hx-ext="ws" ws-connect="/ws/chat?target=fab">
    <div id="fab-log" class="chat-log"></div>
    {{template "chat-form"}}
  </div>{{end}}
  <button class="fab-button" hx-post="/actions/prefs/chat" hx-target="#chat-fab" hx-swap="outerHTML" aria-label="Toggle chat">{{if .ChatOpen}}×{{else}}💬{{end}}</button>
</div>{{end}}

{{/* Learning */}}

{{define "learn-tabs"}}<nav class="tabs">
  <a href="/learn?tab=topics" data-nav{{if eq .Tab "topics"}} class="active"{{end}}>Topics</a>
  <a href="/learn?tab=progress" data-nav{{if eq .Tab "progress"}} class="active"{{end}}>Progress</a>
  <a href="/learn?tab=badges" data-nav{{if eq .Tab "badges"}} class="active"{{end}}>Badges</a>
</nav>{{end}}

{{define "progress"}}<div class="progress-summary">
  <div class="progress-bar"><div style="width: {{.Percent}}%"></div></div>
  <p>{{len .Completed}}{{if .TotalLessons}} of {{.TotalLessons}}{{end}} lessons completed ({{.Percent}}%)</p>
  <p>🔥 {{.StreakDays}} day streak{{with .LastActivity}} · last active {{.}}{{end}}</p>
  <p>🏅 {{.BadgesEarned}} badges earned</p>
</div>{{end}}

{{define "badges"}}<div class="badges">{{range .}}
  <div class="badge{{if .Earned}} earned{{end}}">
    <span class="icon">{{.Icon}}</span>
    <strong>{{.Name}}</strong>
    <span>{{.Description}}</span>
  </div>{{end}}
</div>{{end}}

{{define "learn"}}<section class="learn">
  <h1>Learning hub</h1>
  {{template "learn-tabs" .}}
  {{if eq .Tab "topics"}}
    {{if .Topics}}<div class="topics">{{range .Topics}}
      <a class="topic-card" href="/learn/{{pathEscape .ID}}" data-nav>
        <h3>{{.Title}}</h3>
        <p>{{.Description}}</p>
        <p class="meta">{{.Level}} · difficulty {{.Difficulty}}</p>
      </a>{{end}}
    </div>{{else}}<p class="empty">No lessons are available yet.</p>{{end}}
  {{else if eq .Tab "progress"}}
    {{template "progress" .Progress}}
  {{else}}
    {{template "badges" .Badges}}
  {{end}}
</section>{{end}}

{{define "topic"}}<section class="topic">
  <a href="/learn" data-nav class="back">← All topics</a>
  <h1>{{.Topic.Title}}</h1>
  <p>{{.Topic.Description}}</p>
  <ol class="levels">{{range .Levels}}
    <li class="level{{if .Completed}} done{{end}}">
      <a href="/learn/{{pathEscape $.Topic.ID}}/{{.Name}}" data-nav>{{title .Name}}</a>
      {{if .Completed}}<span class="check">✓ Completed</span>{{end}}
      <a href="/learn/{{pathEscape $.Topic.ID}}/{{.Name}}/quiz" data-nav class="button small secondary">Quiz</a>
    </li>{{end}}
  </ol>
</section>{{end}}

{{define "lesson"}}<article class="lesson">
  <a href="/learn/{{pathEscape .Lesson.ID}}" data-nav class="back">← {{.Lesson.Title}}</a>
  <p class="meta">{{title .Lesson.RequestedLevel}}{{if .Completed}} · ✓ Completed{{end}}</p>
  {{range .Lesson.Blocks}}
    {{if eq .T "h2"}}<h2>{{.Text}}</h2>
    {{else if eq .T "h3"}}<h3>{{.Text}}</h3>
    {{else if eq .T "ul"}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>
    {{else}}<p>{{.Text}}</p>{{end}}
  {{end}}
  <a href="/learn/{{pathEscape .Lesson.ID}}/{{.Lesson.RequestedLevel}}/quiz" data-nav class="button">Take the quiz</a>
</article>{{end}}

{{define "quiz"}}<section class="quiz">
  <a href="/learn/{{pathEscape .Topic}}/{{.Level}}" data-nav class="back">← Back to lesson</a>
  <h1>{{title .Level}} quiz</h1>
  {{if .Attempt}}<div id="quiz-card" class="quiz-card">{{template "quiz-card" .}}</div>
  {{else}}<p class="empty">This lesson has no quiz questions yet.</p>{{end}}
</section>{{end}}

{{define "quiz-card"}}{{with .Attempt}}{{$q := .Current}}
<p class="muted">Question {{inc .Index}} of {{.Total}} · {{.Answered}} answered</p>
<h2>{{$q.Prompt}}</h2>
<div class="choices">{{range $i, $c := $q.Choices}}
  <button class="choice{{if eq $i $.Selected}} selected{{end}}" hx-post="{{$.Action "answer"}}" hx-vals='{"choice": "{{$i}}"}' hx-target="#quiz-card" hx-swap="innerHTML"{{if $.Attempt.Submitted}} disabled{{end}}>
    <span class="letter">{{letter $i}}</span> {{$c}}
  </button>{{end}}
</div>
<div class="quiz-nav">
  <button class="button secondary" hx-post="{{$.Action "prev"}}" hx-target="#quiz-card" hx-swap="innerHTML"{{if eq .Index 0}} disabled{{end}}>Previous</button>
  {{if .CanSubmit}}
  <button class="button" hx-post="{{$.Action "submit"}}" hx-target="#quiz-card" hx-swap="innerHTML">Submit</button>
  {{else}}
  <button class="button" hx-post="{{$.Action "next"}}" hx-target="#quiz-card" hx-swap="innerHTML"{{if eq (inc .Index) .Total}} disabled{{end}}>Next</button>
  {{end}}
</div>
{{if .Submitted}}<p class="muted">Submitted. Loading your results…</p>{{end}}
{{end}}{{with .Error}}<div class="inline-error" role="alert">{{.}}</div>{{end}}{{end}}

{{define "results"}}<section class="results-page">
  <h1>Quiz results</h1>
  {{with .Result}}
    <p class="score {{if .Passed}}passed{{else}}failed{{end}}">{{.Score}} / {{.Total}} ({{.Percent}}%)</p>
    <p>{{if .Passed}}Well done, you passed!{{else}}You need 80% to pass. Review the lesson and try again.{{end}}</p>
    <ol class="details">{{range .Details}}
      <li class="{{if .Correct}}correct{{else}}incorrect{{end}}">{{if .Correct}}✓{{else}}✗{{end}} {{.Explanation}}</li>{{end}}
    </ol>
    <div class="actions">
      <a href="/learn/{{pathEscape .Topic}}/{{.Level}}/quiz" data-nav class="button secondary">Retake</a>
      {{if and .Passed .NextLevel}}<a href="/learn/{{pathEscape .Topic}}/{{.NextLevel}}" data-nav class="button">Next level: {{title .NextLevel}}</a>{{end}}
      <a href="/learn?tab=progress" data-nav class="button secondary">View progress</a>
    </div>
  {{else}}
    <p class="empty">No results to show. Results are only available right after a quiz.</p>
    <a href="/learn/{{pathEscape .Topic}}/{{.Level}}/quiz" data-nav class="button">Take the quiz</a>
  {{end}}
</section>{{end}}

{{define "profile"}}<section class="profile">
  <div class="profile-head">
    <span class="avatar large">{{.Header.Initials}}</span>
    <h1>{{.Header.Name}}</h1>
    {{if not .Header.LoggedIn}}<p class="muted"><a href="/login" data-nav>Log in</a> to keep your name across visits.</p>{{end}}
  </div>
  <h2>Progress</h2>
  {{template "progress" .Progress}}
  <h2>Badges</h2>
  {{template "badges" .Badges}}
</section>{{end}}

{{/* Mission simulator */}}

{{define "sim-select"}}<select name="{{.Field}}" multiple hx-post="/actions/simulator/field" hx-vals='{"field": "{{.Field}}"}' hx-trigger="change" hx-swap="none">
  {{range .Options}}<option value="{{.}}"{{if $.Selected .}} selected{{end}}>{{.}}</option>{{end}}
</select>{{end}}

{{define "simulator"}}<section class="simulator">
  <h1>Mission simulator</h1>
  <div class="scenario">
    <label>Question
      <input type="text" name="question" value="{{.Scenario.Question}}" hx-post="/actions/simulator/field" hx-vals='{"field": "question"}' hx-trigger="change, keyup changed delay:500ms" hx-swap="none">
    </label>
    <label>Organism {{template "sim-select" (.Select "organism")}}</label>
    <label>Tissue {{template "sim-select" (.Select "tissue")}}</label>
    <label>Countermeasures {{template "sim-select" (.Select "countermeasures")}}</label>
    <label>Microgravity days
      <input type="number" name="microgravity_days" min="0" step="1" value="{{.Scenario.MicrogravityDays}}" hx-post="/actions/simulator/field" hx-vals='{"field": "microgravity_days"}' hx-trigger="change" hx-swap="none">
    </label>
    <label>Radiation (Gy)
      <input type="number" name="radiation_Gy" min="0" step="0.1" value="{{.Scenario.RadiationGy}}" hx-post="/actions/simulator/field" hx-vals='{"field": "radiation_Gy"}' hx-trigger="change" hx-swap="none">
    </label>
    <button class="link-button" hx-post="/actions/simulator/reset" hx-swap="none">Reset scenario</button>
  </div>

  <div class="sim-actions">
    <button class="button" hx-post="/actions/simulator/search" hx-target="#sim-evidence" hx-indicator="#sim-evidence">Find evidence</button>
    <button class="button" hx-post="/actions/simulator/run" hx-target="#sim-predictions" hx-indicator="#sim-predictions">Predict outcomes</button>
    <button class="button" hx-post="/actions/simulator/curve" hx-target="#sim-curve" hx-indicator="#sim-curve">Time course</button>
  </div>
  <form class="sim-compare" hx-post="/actions/simulator/compare" hx-target="#sim-compare" hx-indicator="#sim-compare">
    <label>Variant days <input type="number" name="variant_days" min="0" step="1" value="{{.Scenario.MicrogravityDays}}"></label>
    <label>Variant radiation (Gy) <input type="number" name="variant_radiation" min="0" step="0.1" value="{{.Scenario.RadiationGy}}"></label>
    <button type="submit" class="button secondary">Compare</button>
  </form>

  <div id="sim-evidence" class="panel"></div>
  <div id="sim-predictions" class="panel"></div>
  <div id="sim-curve" class="panel"></div>
  <div id="sim-compare" class="panel"></div>
</section>{{end}}

{{define "sim-evidence"}}<h2>Evidence</h2>{{if .}}<ol class="evidence">{{range .}}
  <li><span class="muted">#{{.ID}}{{with .Score}} · score {{fixed3 (deref .)}}{{end}}</span><p>{{.Text}}</p></li>{{end}}
</ol>{{else}}<p class="empty">No evidence found for this question.</p>{{end}}{{end}}

{{define "sim-predictions"}}<h2>Predicted outcomes</h2>{{if .}}<table class="predictions">
  <thead><tr><th>Outcome</th><th>Probability</th><th>95% CI</th><th>Direction</th></tr></thead>
  <tbody>{{range .}}<tr>
    <td>{{.Name}}</td>
    <td>{{pct .Prob}}</td>
    <td>{{if eq (len .CI95) 2}}{{pct (index .CI95 0)}} – {{pct (index .CI95 1)}}{{else}}–{{end}}</td>
    <td>{{with .Direction}}{{.}}{{else}}–{{end}}</td>
  </tr>{{with .Evidence}}<tr class="evidence-row"><td colspan="4"><ul>{{range .}}<li>{{with .Sentence}}{{.}}{{else}}{{.Text}}{{end}}</li>{{end}}</ul></td></tr>{{end}}{{end}}
  </tbody>
</table>{{else}}<p class="empty">No predictions for this scenario.</p>{{end}}{{end}}

{{define "sim-curve"}}<h2>Time course</h2>{{if .}}<table class="curve">
  <thead><tr><th>Day</th><th>Outcomes</th></tr></thead>
  <tbody>{{range .}}<tr><td>{{.Day}}</td><td>{{range $i, $p := .Predictions}}{{if $i}}, {{end}}{{$p.Name}} {{pct $p.Prob}}{{end}}</td></tr>{{end}}</tbody>
</table>{{else}}<p class="empty">No time course available.</p>{{end}}{{end}}

{{define "sim-compare"}}<h2>Baseline vs {{.Days}} days, {{fixed1 .Radiation}} Gy</h2>{{if .Rows}}<table class="compare">
  <thead><tr><th>Outcome</th><th>Baseline</th><th>Variant</th><th>Change</th></tr></thead>
  <tbody>{{range .Rows}}<tr>
    <td>{{.Name}}</td><td>{{pct .BaselineValue}}</td><td>{{pct .VariantValue}}</td>
    <td class="{{if gt .DeltaValue 0.0}}up{{else if lt .DeltaValue 0.0}}down{{end}}">{{pct .DeltaValue}}</td>
  </tr>{{end}}</tbody>
</table>{{else}}<p class="empty">No differences to show.</p>{{end}}{{end}}

{{/* Deep research */}}

{{define "research"}}<section class="research">
  <h1>Deep research</h1>
  <p class="muted">Paste your paper to score its novelty against the publication corpus. Analysis can take up to {{.Timeout}} seconds.</p>
  <form class="research-form" hx-post="/actions/research/analyze" hx-target="#research-result" hx-indicator="#research-progress"
        hx-trigger="submit" hx-disabled-elt="#research-submit button">
    <div hx-post="/actions/research/validate" hx-trigger="keyup changed delay:300ms, change" hx-target="#research-submit" hx-include="closest form">
      <label>Title <input type="text" name="title" value="{{.Paper.Title}}"></label>
      <label>Abstract <textarea name="abstract" rows="5">{{.Paper.Abstract}}</textarea></label>
      <label>Methods <textarea name="methods" rows="5">{{.Paper.Methods}}</textarea></label>
      <label>Results <textarea name="results" rows="5">{{.Paper.Results}}</textarea></label>
      <label>Discussion <textarea name="discussion" rows="5">{{.Paper.Discussion}}</textarea></label>
    </div>
    <div id="research-submit">{{template "research-submit" .}}</div>
  </form>
  <div id="research-progress" class="htmx-indicator loading"><div class="spinner"></div><p>Analyzing your paper…</p></div>
  <div id="research-result"></div>
</section>{{end}}

{{define "research-submit"}}<button type="submit" class="button"{{if not .Ready}} disabled{{end}}>Analyze</button>{{end}}

{{define "research-result"}}{{if .Errors}}<ul class="field-errors">{{range $field, $msg := .Errors}}<li>{{$msg}}</li>{{end}}</ul>
{{else if .Error}}<div class="error-state" role="alert"><p>{{.Error}}</p></div>
{{else}}{{with .Analysis}}<div class="analysis">
  <h2>Overall novelty: {{pct .OverallNovelty}}</h2>
  {{range .SectionResults}}<div class="section-result">
    <h3>{{title .SectionName}} <span class="muted">{{pct .FinalNovelty}}</span></h3>
    <div class="markdown">{{markdown .Feedback}}</div>
  </div>{{end}}
  {{with .MetaSummary}}<h3>Summary</h3><div class="markdown">{{markdown .}}</div>{{end}}
</div>{{end}}{{end}}{{end}}

{{/* Accounts */}}

{{define "field-error"}}{{with .}}<span class="field-error">{{.}}</span>{{end}}{{end}}

{{define "auth-message"}}{{with .Message}}<p class="{{if $.Success}}success{{else}}inline-error{{end}}" role="status">{{.}}</p>{{end}}{{end}}

{{define "login"}}<section id="auth-card" class="auth-card">
  <h1>Log in</h1>
  {{template "auth-message" .}}
  <form hx-post="/actions/auth/login" hx-target="#auth-card" hx-swap="outerHTML" novalidate>
    <label>Email <input type="email" name="email" value="{{index .Values "email"}}" autocomplete="email"></label>
    {{template "field-error" (index .Errors "email")}}
    <label>Password <input type="password" name="password" autocomplete="current-password"></label>
    {{template "field-error" (index .Errors "password")}}
    <button type="submit" class="button"{{if .Success}} disabled{{end}}>Log in</button>
  </form>
  <p><a href="/forgot-password" data-nav>Forgot your password?</a> · <a href="/signup" data-nav>Create an account</a></p>
</section>{{end}}

{{define "signup"}}<section id="auth-card" class="auth-card">
  <h1>Sign up</h1>
  {{template "auth-message" .}}
  <form hx-post="/actions/auth/signup" hx-target="#auth-card" hx-swap="outerHTML" novalidate>
    <label>Name <input type="text" name="name" value="{{index .Values "name"}}" autocomplete="name"></label>
    {{template "field-error" (index .Errors "name")}}
    <label>Email <input type="email" name="email" value="{{index .Values "email"}}" autocomplete="email"></label>
    {{template "field-error" (index .Errors "email")}}
    <label>Password <input type="password" name="password" autocomplete="new-password"></label>
    {{template "field-error" (index .Errors "password")}}
    <label>Confirm password <input type="password" name="confirm" autocomplete="new-password"></label>
    {{template "field-error" (index .Errors "confirm")}}
    <button type="submit" class="button"{{if .Success}} disabled{{end}}>Sign up</button>
  </form>
  <p>Already have an account? <a href="/login" data-nav>Log in</a></p>
</section>{{end}}

{{define "forgot"}}<section id="auth-card" class="auth-card">
  <h1>Reset password</h1>
  {{template "auth-message" .}}
  <form hx-post="/actions/auth/forgot" hx-target="#auth-card" hx-swap="outerHTML" novalidate>
    <label>Email <input type="email" name="email" value="{{index .Values "email"}}" autocomplete="email"></label>
    {{template "field-error" (index .Errors "email")}}
    <button type="submit" class="button"{{if .Success}} disabled{{end}}>Send instructions</button>
  </form>
  <p><a href="/login" data-nav>Back to log in</a></p>
</section>{{end}}
`
