// Package insights serves AI-generated publication insights through a
// bounded cache.
package insights

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/astroquery/internal/markdown"
)

// Empty is shown when the backend has nothing for a publication.
const Empty = "No insights available."

// fetchTimeout bounds a shared backend call once it is detached from the
// caller that started it.
const fetchTimeout = 2 * time.Minute

// Fetcher loads insights text from the backend.
type Fetcher interface {
	Insights(ctx context.Context, pubID string) (string, error)
}

// View is the rendered insights of one publication.
type View struct {
	ID     string
	Text   string
	HTML   template.HTML
	Cached bool
}

// Service fetches and caches insights. The cache holds at most size
// entries, each for at most ttl.
type Service struct {
	fetch  Fetcher
	cache  *expirable.LRU[string, string]
	group  singleflight.Group
	md     *markdown.Renderer
	logger *zap.Logger
}

// NewService creates an insights service.
func NewService(f Fetcher, size int, ttl time.Duration, md *markdown.Renderer, logger *zap.Logger) *Service {
	s := &Service{fetch: f, md: md, logger: logger}
	s.cache = expirable.NewLRU[string, string](size, func(id string, _ string) {
		logger.Debug("insights evicted", zap.String("publication", id))
	}, ttl)
	return s
}

// Get returns the insights for pubID, from cache when possible.
// Concurrent requests for the same publication share one backend call.
// The shared call is not tied to any one caller: a caller that gives up
// returns its own context error and leaves the fetch running for the rest.
func (s *Service) Get(ctx context.Context, pubID string) (*View, error) {
	if text, ok := s.cache.Get(pubID); ok {
		return s.view(pubID, text, true), nil
	}

	ch := s.group.DoChan(pubID, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		text, err := s.fetch.Insights(fctx, pubID)
		if err != nil {
			return "", err
		}
		if text == "" {
			text = Empty
		}
		s.cache.Add(pubID, text)
		return text, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("loading insights for %s: %w", pubID, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("loading insights for %s: %w", pubID, res.Err)
		}
		return s.view(pubID, res.Val.(string), false), nil
	}
}

// Forget drops a cached entry so the next Get refetches.
func (s *Service) Forget(pubID string) {
	s.cache.Remove(pubID)
}

// Len is the number of cached entries.
func (s *Service) Len() int { return s.cache.Len() }

func (s *Service) view(id, text string, cached bool) *View {
	return &View{ID: id, Text: text, HTML: s.md.RenderOrText(text), Cached: cached}
}
