package pages

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"
)

// bufferMount collects what a renderer puts in the mount. Only the last
// Replace is written to the response.
type bufferMount struct {
	mu      sync.Mutex
	content template.HTML
}

func (b *bufferMount) Replace(content template.HTML) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = content
	return nil
}

func (b *bufferMount) HTML() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// Browser events sent with a response through the HX-Trigger header.
const (
	eventZoomOut  = "aq:zoom-out"
	eventZoomIn   = "aq:zoom-in"
	eventChrome   = "aq:chrome"
	eventNavigate = "aq:navigate"
	eventToast    = "aq:toast"
)

// events accumulates HX-Trigger events for one response.
type events struct {
	mu sync.Mutex
	m  map[string]any
}

type eventsKey struct{}

func withEvents(ctx context.Context) (context.Context, *events) {
	ev := &events{m: map[string]any{}}
	return context.WithValue(ctx, eventsKey{}, ev), ev
}

func eventsFrom(ctx context.Context) *events {
	ev, _ := ctx.Value(eventsKey{}).(*events)
	return ev
}

func (e *events) add(name string, detail any) {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if detail == nil {
		detail = true
	}
	e.m[name] = detail
}

// write sets the HX-Trigger header. It must run before the body is written.
func (e *events) write(w http.ResponseWriter) {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.m) == 0 {
		return
	}
	data, err := json.Marshal(e.m)
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(data))
}

// trigger sends a single event with the response.
func trigger(w http.ResponseWriter, name string, detail any) {
	ev := &events{m: map[string]any{}}
	ev.add(name, detail)
	ev.write(w)
}

// htmxTransitions asks the browser to play the home scene transitions.
// The scene itself runs client side; the server only signals it.
type htmxTransitions struct{}

func (htmxTransitions) LeaveHome(ctx context.Context) error {
	eventsFrom(ctx).add(eventZoomOut, nil)
	return nil
}

func (htmxTransitions) EnterHome(ctx context.Context) error {
	eventsFrom(ctx).add(eventZoomIn, nil)
	return nil
}
