// Package jsonfile provides the flat-file fallback memory backend.
// The whole store is one JSON document; ranking is enumeration-grade
// (count of query terms present), a deliberate trade for having no
// external dependency at all.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.MemoryBackend = (*Backend)(nil)

// Backend stores documents in a single JSON file.
type Backend struct {
	path string
}

// record is the on-disk document shape.
type record struct {
	Content    string            `json:"content"`
	Title      string            `json:"title"`
	URI        string            `json:"uri"`
	SourceFile string            `json:"source_file"`
	Tags       map[string]string `json:"tags"`
}

// fileFormat is the on-disk store shape.
type fileFormat struct {
	Documents []record          `json:"documents"`
	Metadata  map[string]string `json:"metadata"`
}

// New creates a JSON fallback backend. The store file carries a .json
// suffix in place of the memory file's extension.
func New(memoryFile string) *Backend {
	ext := filepath.Ext(memoryFile)
	return &Backend{path: strings.TrimSuffix(memoryFile, ext) + ".json"}
}

// Name returns the backend variant name.
func (b *Backend) Name() string {
	return "jsonfile"
}

// Path returns the store file path.
func (b *Backend) Path() string {
	return b.path
}

// Create writes an empty store.
func (b *Backend) Create(_ context.Context) error {
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating memory directory: %w", err)
		}
	}
	return b.write(fileFormat{
		Documents: []record{},
		Metadata:  map[string]string{"version": "fallback"},
	})
}

// AddDocument appends one chunk to the store file.
func (b *Backend) AddDocument(_ context.Context, doc domain.Document) error {
	data, err := b.read()
	if err != nil {
		return err
	}

	data.Documents = append(data.Documents, record{
		Content:    doc.Content,
		Title:      doc.Title,
		URI:        doc.URI,
		SourceFile: doc.SourceFile,
		Tags:       doc.Tags,
	})

	return b.write(data)
}

// Search scores documents by the number of query terms they contain.
func (b *Backend) Search(_ context.Context, query string, topK, snippetChars int) ([]domain.SearchHit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	data, err := b.read()
	if err != nil {
		return nil, err
	}

	var hits []domain.SearchHit
	for _, doc := range data.Documents {
		haystack := strings.ToLower(doc.Content + " " + doc.Title)

		var score float64
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if score == 0 {
			continue
		}

		text := doc.Content
		if snippetChars > 0 && len(text) > snippetChars {
			text = text[:snippetChars]
		}
		hits = append(hits, domain.SearchHit{
			Text:  text,
			Title: doc.Title,
			Score: score,
			URI:   doc.URI,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Stats reports the record count. The fallback maintains no indexes.
func (b *Backend) Stats(_ context.Context) (domain.StoreStats, error) {
	data, err := b.read()
	if err != nil {
		return domain.StoreStats{}, err
	}

	return domain.StoreStats{
		FrameCount:  len(data.Documents),
		HasLexIndex: false,
		HasVecIndex: false,
		Backend:     b.Name(),
	}, nil
}

// Close releases resources. The file is not held open.
func (b *Backend) Close() error {
	return nil
}

func (b *Backend) read() (fileFormat, error) {
	var data fileFormat

	raw, err := os.ReadFile(b.path)
	if err != nil {
		return data, fmt.Errorf("reading store: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("parsing store: %w", err)
	}
	return data, nil
}

func (b *Backend) write(data fileFormat) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	if err := os.WriteFile(b.path, raw, 0600); err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	return nil
}
