package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memrag-cli/internal/loaders"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads documents, chunks them and persists the chunks.
type IngestService struct {
	registry *loaders.Registry
	store    driven.MemoryStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(registry *loaders.Registry, store driven.MemoryStore) *IngestService {
	return &IngestService{
		registry: registry,
		store:    store,
	}
}

// Ingest loads the file or directory at path and stores every resulting
// chunk. A chunk that fails to persist is logged and skipped; the returned
// count covers only the chunks that made it into the store.
func (s *IngestService) Ingest(ctx context.Context, path string) (int, error) {
	docs, err := s.registry.LoadPath(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("loading documents: %w", err)
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w: nothing to ingest at %s", domain.ErrNoDocuments, path)
	}

	stored := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		if err := s.store.AddDocument(ctx, doc); err != nil {
			logger.Warn("Failed to store chunk %s: %v", doc.URI, err)
			continue
		}
		stored++
	}

	logger.Info("Ingested %d/%d chunks from %s", stored, len(docs), path)
	return stored, nil
}
