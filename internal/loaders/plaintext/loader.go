// Package plaintext loads plain text, markdown and reStructuredText files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles plain text documents.
type Loader struct {
	splitter *chunker.Splitter
}

// New creates a new plain text loader.
func New(splitter *chunker.Splitter) *Loader {
	return &Loader{splitter: splitter}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".md", ".txt", ".rst"}
}

// Load reads the file as-is, chunks it and wraps each chunk in a Document.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	chunks := l.splitter.Split(string(data))

	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	kind := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	docs := make([]domain.Document, 0, len(chunks))
	for i, chunk := range chunks {
		title := stem
		if len(chunks) > 1 {
			title = fmt.Sprintf("%s (Part %d/%d)", stem, i+1, len(chunks))
		}

		docs = append(docs, domain.Document{
			ID:         uuid.New().String(),
			Content:    chunk,
			Title:      title,
			URI:        fmt.Sprintf("mv2://docs/%s#chunk-%d", filename, i+1),
			SourceFile: path,
			Tags: map[string]string{
				"type":         kind,
				"chunk":        strconv.Itoa(i + 1),
				"total_chunks": strconv.Itoa(len(chunks)),
			},
		})
	}

	return docs, nil
}
