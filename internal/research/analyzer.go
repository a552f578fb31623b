package research

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
)

var (
	// ErrInFlight is returned when the session already has an analysis
	// running.
	ErrInFlight = errors.New("analysis already in progress")
	// ErrTimeout is returned when the backend did not answer in time.
	ErrTimeout = errors.New("analysis timed out")
	// ErrAbandoned is returned to an analysis whose page was left.
	ErrAbandoned = errors.New("analysis abandoned")
)

// Backend is the subset of the backend client the analyzer calls.
type Backend interface {
	AnalyzeResearch(ctx context.Context, req backend.ResearchRequest) (*backend.Analysis, error)
}

// Analyzer runs at most one analysis per session.
type Analyzer struct {
	backend Backend
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]context.CancelCauseFunc
}

// NewAnalyzer creates an Analyzer whose requests time out after timeout.
func NewAnalyzer(b Backend, timeout time.Duration, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		backend:  b,
		timeout:  timeout,
		logger:   logger,
		inflight: make(map[string]context.CancelCauseFunc),
	}
}

// Timeout is the configured request deadline.
func (a *Analyzer) Timeout() time.Duration { return a.timeout }

// Analyze validates and submits a paper. It returns FieldErrors for an
// incomplete paper, ErrInFlight while another analysis of the session runs,
// ErrTimeout when the deadline passes and ErrAbandoned after Abandon.
func (a *Analyzer) Analyze(ctx context.Context, sessionID string, p Paper) (*backend.Analysis, error) {
	if fe := p.Validate(); fe != nil {
		return nil, fe
	}

	actx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	a.mu.Lock()
	if _, busy := a.inflight[sessionID]; busy {
		a.mu.Unlock()
		return nil, ErrInFlight
	}
	a.inflight[sessionID] = cancel
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inflight, sessionID)
		a.mu.Unlock()
	}()

	tctx, tcancel := context.WithTimeoutCause(actx, a.timeout, ErrTimeout)
	defer tcancel()

	start := time.Now()
	res, err := a.backend.AnalyzeResearch(tctx, p.Request())
	if err != nil {
		cause := context.Cause(tctx)
		switch {
		case errors.Is(cause, ErrTimeout), errors.Is(cause, ErrAbandoned):
			a.logger.Info("research analysis stopped",
				zap.String("session", sessionID),
				zap.NamedError("cause", cause),
				zap.Duration("elapsed", time.Since(start)))
			return nil, cause
		case ctx.Err() != nil:
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("analyzing paper: %w", err)
	}
	return res, nil
}

// InFlight reports whether the session has an analysis running.
func (a *Analyzer) InFlight(sessionID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inflight[sessionID]
	return ok
}

// Abandon cancels the session's running analysis, if any. The waiting
// caller gets ErrAbandoned.
func (a *Analyzer) Abandon(sessionID string) {
	a.mu.Lock()
	cancel, ok := a.inflight[sessionID]
	a.mu.Unlock()
	if ok {
		cancel(ErrAbandoned)
	}
}

// Message is the user-facing text for an analysis failure.
func (a *Analyzer) Message(err error) string {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, ErrTimeout):
		return fmt.Sprintf("Request timed out after %d seconds", int(a.timeout.Seconds()))
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return "Analysis failed. Please try again."
	}
}
