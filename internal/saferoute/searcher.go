package saferoute

import (
	"context"
	"sync"

	t "github.com/shieldnav/saferoute-service/internal/types"
)

// PlanFunc is the search pipeline signature the Searcher wraps.
type PlanFunc func(ctx context.Context, from, to string) ([]t.RouteOption, *t.Conditions, error)

// Searcher serializes route searches for one client with last-request-wins
// semantics: starting a new search cancels any still-in-flight previous one
// so stale results never race onto the display.
type Searcher struct {
	plan PlanFunc

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSearcher(plan PlanFunc) *Searcher {
	return &Searcher{plan: plan}
}

func (s *Searcher) Search(ctx context.Context, from, to string) ([]t.RouteOption, *t.Conditions, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	searchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	options, weather, err := s.plan(searchCtx, from, to)
	if searchCtx.Err() != nil {
		return nil, nil, searchCtx.Err()
	}
	return options, weather, err
}

// Close cancels any in-flight search.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
