// Package memory selects a persistence backend by availability and wraps it
// with the pipeline's degradation policy.
package memory

import (
	"context"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.MemoryStore = (*Store)(nil)

// Store holds the selected backend for its lifetime and applies the
// degradation policy: search failures become empty results, stats failures
// become error mappings, and Create cascades down the variant chain.
type Store struct {
	probes  []Probe
	backend driven.MemoryBackend
	idx     int
}

// Open selects the first available backend from the probe chain.
func Open(probes []Probe) (*Store, error) {
	backend, idx, err := open(probes, 0)
	if err != nil {
		return nil, err
	}

	logger.Debug("Selected memory backend: %s", backend.Name())
	return &Store{probes: probes, backend: backend, idx: idx}, nil
}

// OpenDefault opens a store for the memory file using the standard chain.
func OpenDefault(memoryFile string) (*Store, error) {
	return Open(DefaultProbes(memoryFile))
}

// Backend returns the name of the selected backend variant.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Create initialises a new empty store. When the selected backend fails to
// create, the store falls through to the next variant in the chain rather
// than failing outright.
func (s *Store) Create(ctx context.Context) error {
	for {
		err := s.backend.Create(ctx)
		if err == nil {
			return nil
		}
		logger.Warn("Backend %s failed to create store: %v", s.backend.Name(), err)

		next, idx, openErr := open(s.probes, s.idx+1)
		if openErr != nil {
			// Chain exhausted; report the original failure.
			return err
		}

		s.backend.Close()
		s.backend = next
		s.idx = idx
	}
}

// AddDocument persists one chunk.
func (s *Store) AddDocument(ctx context.Context, doc domain.Document) error {
	return s.backend.AddDocument(ctx, doc)
}

// Search returns ranked hits. Backend errors never propagate: the result
// degrades to "no results".
func (s *Store) Search(ctx context.Context, query string, topK, snippetChars int) []domain.SearchHit {
	hits, err := s.backend.Search(ctx, query, topK, snippetChars)
	if err != nil {
		logger.Warn("Search failed on %s backend: %v", s.backend.Name(), err)
		return nil
	}
	return hits
}

// Stats returns store metrics; a backend error surfaces as a mapping with
// an "error" key.
func (s *Store) Stats(ctx context.Context) map[string]any {
	stats, err := s.backend.Stats(ctx)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return stats.Map()
}

// Close releases the selected backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
