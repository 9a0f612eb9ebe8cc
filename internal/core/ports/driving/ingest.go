package driving

import "context"

// IngestService loads documents from a path and persists them.
type IngestService interface {
	// Ingest loads the file or directory at path, chunks it and stores the
	// resulting documents. It returns the number of chunks stored.
	Ingest(ctx context.Context, path string) (int, error)
}
