package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/prefs"
)

// Results is one executed search.
type Results struct {
	State        State
	Publications []backend.Publication
	Suggestions  []string
	Warning      string
	// Searched is false when the query was empty and no request was made.
	Searched bool
}

// Searcher is the backend operation the service needs.
type Searcher interface {
	SemanticSearch(ctx context.Context, p backend.SearchParams) (*backend.SearchResponse, error)
}

// Service runs searches and remembers the last query per session.
type Service struct {
	backend Searcher
	prefs   *prefs.Store
	logger  *zap.Logger
}

// NewService creates a search service. prefs may be nil.
func NewService(b Searcher, p *prefs.Store, logger *zap.Logger) *Service {
	return &Service{backend: b, prefs: p, logger: logger}
}

// Search runs st. An empty query returns no results without calling the
// backend.
func (s *Service) Search(ctx context.Context, sessionID string, st State) (*Results, error) {
	res := &Results{State: st}
	if st.Query == "" {
		return res, nil
	}

	resp, err := s.backend.SemanticSearch(ctx, st.Params())
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", st.Query, err)
	}
	res.Searched = true
	res.Publications = resp.Results
	res.Suggestions = resp.Suggestions
	res.Warning = resp.Warning

	if s.prefs != nil && sessionID != "" {
		if _, err := s.prefs.UpdateSession(ctx, sessionID, func(p *prefs.Session) { p.LastQuery = st.Query }); err != nil {
			s.logger.Warn("saving last query failed", zap.Error(err))
		}
	}
	return res, nil
}
