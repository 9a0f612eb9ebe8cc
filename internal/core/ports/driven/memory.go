package driven

import (
	"context"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
)

// MemoryBackend is one concrete persistence/search variant.
//
// Implementations:
//   - sqlite: in-process store with real relevance ranking
//   - cli: subprocess wrapper around the memvid command-line tool
//   - jsonfile: flat-file fallback with enumeration-grade ranking
//
// Backends return errors; degradation policy (empty results on search
// failure, error mappings from stats) lives in the store wrapper, not here.
type MemoryBackend interface {
	// Name identifies the backend variant ("sqlite", "cli", "jsonfile").
	Name() string

	// Create initialises a new empty store at the configured path.
	Create(ctx context.Context) error

	// AddDocument persists one chunk.
	AddDocument(ctx context.Context, doc domain.Document) error

	// Search returns at most topK hits ordered by descending relevance.
	// Hit text is truncated to snippetChars characters.
	Search(ctx context.Context, query string, topK, snippetChars int) ([]domain.SearchHit, error)

	// Stats reports backend-specific store metrics.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Close releases resources.
	Close() error
}

// MemoryStore is the degradation-aware adapter the pipeline talks to.
// It holds one selected MemoryBackend for its lifetime.
type MemoryStore interface {
	// Backend returns the name of the selected backend variant.
	Backend() string

	// Create initialises the store, cascading to a less capable variant
	// when the selected one fails.
	Create(ctx context.Context) error

	// AddDocument persists one chunk.
	AddDocument(ctx context.Context, doc domain.Document) error

	// Search returns ranked hits. It never fails: backend errors degrade
	// to an empty result set.
	Search(ctx context.Context, query string, topK, snippetChars int) []domain.SearchHit

	// Stats returns store metrics. Backend errors surface as a mapping
	// with an "error" key rather than an error return.
	Stats(ctx context.Context) map[string]any

	// Close releases resources.
	Close() error
}
