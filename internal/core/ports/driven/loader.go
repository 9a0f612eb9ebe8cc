package driven

import (
	"context"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
)

// DocumentLoader turns files into chunked Document records.
type DocumentLoader interface {
	// Extensions returns the file extensions this loader handles,
	// lower-case with leading dot (".md", ".pdf").
	Extensions() []string

	// Load reads one file and returns its chunked documents.
	// A corrupt or unreadable file is the caller's cue to skip, not abort.
	Load(ctx context.Context, path string) ([]domain.Document, error)
}
