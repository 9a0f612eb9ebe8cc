// Package loaders dispatches files to format-specific document loaders.
package loaders

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/loaders/docx"
	"github.com/custodia-labs/memrag-cli/internal/loaders/pdf"
	"github.com/custodia-labs/memrag-cli/internal/loaders/plaintext"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// Registry selects a loader by file extension.
type Registry struct {
	byExt map[string]driven.DocumentLoader
}

// NewRegistry creates a registry over the given loaders.
func NewRegistry(ls ...driven.DocumentLoader) *Registry {
	byExt := make(map[string]driven.DocumentLoader)
	for _, l := range ls {
		for _, ext := range l.Extensions() {
			byExt[ext] = l
		}
	}
	return &Registry{byExt: byExt}
}

// Default creates a registry with the standard loaders (plain text, PDF,
// DOCX) sharing one splitter.
func Default(splitter *chunker.Splitter) *Registry {
	return NewRegistry(
		plaintext.New(splitter),
		pdf.New(splitter),
		docx.New(splitter),
	)
}

// Supported reports whether a loader exists for the file's extension.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadFile loads a single file with the loader matching its extension.
func (r *Registry) LoadFile(ctx context.Context, path string) ([]domain.Document, error) {
	loader, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
	return loader.Load(ctx, path)
}

// LoadPath loads a file or recursively loads a directory. Unsupported and
// unreadable files are skipped with a warning; only a missing or unreadable
// input path is an error.
func (r *Registry) LoadPath(ctx context.Context, path string) ([]domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input path: %w", err)
	}

	if !info.IsDir() {
		docs, err := r.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return docs, nil
	}

	var docs []domain.Document
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !r.Supported(p) {
			logger.Warn("Skipping unsupported file: %s", p)
			return nil
		}

		fileDocs, err := r.LoadFile(ctx, p)
		if err != nil {
			// Recoverable: one bad file must not fail the batch.
			logger.Warn("Skipping %s: %v", p, err)
			return nil
		}
		docs = append(docs, fileDocs...)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", path, walkErr)
	}

	return docs, nil
}
