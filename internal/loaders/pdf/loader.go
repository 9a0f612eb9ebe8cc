// Package pdf loads PDF files, extracting text page by page.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles PDF documents.
type Loader struct {
	splitter *chunker.Splitter
}

// New creates a new PDF loader.
func New(splitter *chunker.Splitter) *Loader {
	return &Loader{splitter: splitter}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load extracts text page by page, inserting "--- Page N ---" markers
// between pages, then chunks the combined text.
func (l *Loader) Load(_ context.Context, path string) ([]domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pageCount := reader.NumPage()

	var full strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Skipping unreadable page %d of %s: %v", pageNum, path, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		fmt.Fprintf(&full, "\n\n--- Page %d ---\n\n%s", pageNum, text)
	}

	chunks := l.splitter.Split(full.String())

	filename := filepath.Base(path)
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	docs := make([]domain.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, domain.Document{
			ID:         uuid.New().String(),
			Content:    chunk,
			Title:      fmt.Sprintf("%s (Part %d/%d)", stem, i+1, len(chunks)),
			URI:        fmt.Sprintf("mv2://docs/%s#chunk-%d", filename, i+1),
			SourceFile: path,
			Tags: map[string]string{
				"type":         "pdf",
				"chunk":        strconv.Itoa(i + 1),
				"total_chunks": strconv.Itoa(len(chunks)),
				"pages":        strconv.Itoa(pageCount),
			},
		})
	}

	return docs, nil
}
