package analyzer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Session tracks analysis generations so that only the newest request updates shared state.
type Session struct {
	mu         sync.Mutex
	generation uint64
	latest     Outcome
	has        bool
}

// Begin starts a new generation and returns its number.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// Commit stores outcome if gen is still the newest generation.
func (s *Session) Commit(gen uint64, outcome Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.latest = outcome
	s.has = true
	return true
}

// Current reports whether gen is still the newest generation.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// Reset invalidates in-flight generations and clears the latest outcome.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.latest = Outcome{}
	s.has = false
}

// Latest returns the last committed outcome.
func (s *Session) Latest() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.has
}

// AnalyzeAll analyzes texts concurrently with at most limit in flight.
// Results are returned in input order.
func (a *Analyzer) AnalyzeAll(ctx context.Context, texts []string, opts Options, limit int) ([]Outcome, error) {
	out := make([]Outcome, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = a.Run(gctx, text, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
