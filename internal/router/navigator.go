package router

import (
	"context"
	"errors"
	"html/template"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrSuperseded is returned by Navigate when a newer navigation took
	// over before this one reached its renderer.
	ErrSuperseded = errors.New("router: navigation superseded")
	// ErrStale is returned by a guarded Mount whose activation has ended.
	ErrStale = errors.New("router: mount no longer owned by this activation")
)

// Mount is the region a renderer owns for one activation.
type Mount interface {
	Replace(content template.HTML) error
}

// Renderer populates a mount for a matched route.
type Renderer interface {
	Render(ctx context.Context, m Mount, match Match) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, m Mount, match Match) error

func (f RendererFunc) Render(ctx context.Context, m Mount, match Match) error {
	return f(ctx, m, match)
}

// Transitions are the visual effects played when leaving or entering home.
type Transitions interface {
	LeaveHome(ctx context.Context) error
	EnterHome(ctx context.Context) error
}

// NopTransitions plays nothing.
type NopTransitions struct{}

func (NopTransitions) LeaveHome(context.Context) error { return nil }
func (NopTransitions) EnterHome(context.Context) error { return nil }

// guardedMount refuses writes once its activation is cancelled.
type guardedMount struct {
	ctx   context.Context
	inner Mount
}

func (g guardedMount) Replace(content template.HTML) error {
	if g.ctx.Err() != nil {
		return ErrStale
	}
	return g.inner.Replace(content)
}

// Guard wraps m so that it rejects writes after ctx is done.
func Guard(ctx context.Context, m Mount) Mount {
	return guardedMount{ctx: ctx, inner: m}
}

// Navigator is the per-session router state machine. Each Navigate call
// starts a new activation and cancels the previous one.
type Navigator struct {
	table       *Table
	renderers   map[Page]Renderer
	transitions Transitions
	logger      *zap.Logger

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	current   Page
	leaveDone chan struct{} // non-nil while the home-exit transition runs
}

// NewNavigator creates a navigator. Pages without a renderer fall back to
// the PageNotFound renderer.
func NewNavigator(table *Table, renderers map[Page]Renderer, transitions Transitions, logger *zap.Logger) *Navigator {
	if transitions == nil {
		transitions = NopTransitions{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		table:       table,
		renderers:   renderers,
		transitions: transitions,
		logger:      logger,
	}
}

// State returns the current page, or StateTransitioning while leaving home.
func (n *Navigator) State() Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.leaveDone != nil {
		return StateTransitioning
	}
	return n.current
}

// Navigate resolves fragment and hands m to the matching renderer. It
// returns ErrSuperseded without rendering when a newer navigation started
// while this one was waiting on the home-exit transition.
func (n *Navigator) Navigate(ctx context.Context, fragment string, m Mount) (Match, error) {
	match := n.table.Resolve(fragment)

	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.cancel != nil {
		n.cancel()
	}
	actx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	prev := n.current
	n.current = match.Page

	var leave, wait chan struct{}
	switch {
	case n.leaveDone != nil:
		wait = n.leaveDone
	case prev == PageHome && match.Page != PageHome:
		leave = make(chan struct{})
		n.leaveDone = leave
	}
	n.mu.Unlock()

	switch {
	case leave != nil:
		if err := n.transitions.LeaveHome(ctx); err != nil {
			n.logger.Warn("home exit transition failed", zap.Error(err))
		}
		n.mu.Lock()
		n.leaveDone = nil
		n.mu.Unlock()
		close(leave)
	case wait != nil:
		select {
		case <-wait:
		case <-actx.Done():
			return match, n.stopped(ctx)
		}
	}

	if match.Page == PageHome && prev != PageHome && prev != "" {
		if err := n.transitions.EnterHome(ctx); err != nil {
			n.logger.Warn("home enter transition failed", zap.Error(err))
		}
	}

	n.mu.Lock()
	superseded := gen != n.gen
	n.mu.Unlock()
	if superseded {
		return match, ErrSuperseded
	}

	r, ok := n.renderers[match.Page]
	if !ok {
		r = n.renderers[PageNotFound]
	}
	if r == nil {
		return match, errors.New("router: no renderer for " + string(match.Page))
	}

	err := r.Render(actx, Guard(actx, m), match)
	if errors.Is(err, ErrStale) || (err != nil && actx.Err() != nil) {
		return match, n.stopped(ctx)
	}
	return match, err
}

// stopped explains why an activation ended early: the caller's context, or
// a newer navigation.
func (n *Navigator) stopped(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrSuperseded
}

// Close cancels the active renderer, if any.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}
