// Package sqlite provides the native in-process memory backend.
// It stores chunks in a single-file SQLite database and ranks search
// results by term frequency.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.MemoryBackend = (*Backend)(nil)

// Backend is the SQLite-backed memory store.
type Backend struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the store file at path. Failure here signals the
// probe chain to fall back to the next backend variant.
func New(path string) (*Backend, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating memory directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// sql.Open is lazy; force the file open so availability is real.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening memory file: %w", err)
	}

	b := &Backend{db: db, path: path}

	if err := b.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

func (b *Backend) ensureSchema() error {
	_, err := b.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		title       TEXT NOT NULL DEFAULT '',
		uri         TEXT NOT NULL DEFAULT '',
		source_file TEXT NOT NULL DEFAULT '',
		tags        TEXT NOT NULL DEFAULT '{}'
	)`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Name returns the backend variant name.
func (b *Backend) Name() string {
	return "sqlite"
}

// Create initialises an empty store, discarding any existing records.
func (b *Backend) Create(ctx context.Context) error {
	if err := b.ensureSchema(); err != nil {
		return err
	}
	if _, err := b.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	return nil
}

// AddDocument persists one chunk.
func (b *Backend) AddDocument(ctx context.Context, doc domain.Document) error {
	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}

	_, err = b.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, content, title, uri, source_file, tags)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Content, doc.Title, doc.URI, doc.SourceFile, string(tags))
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// Search scores every stored chunk by query term frequency and returns the
// topK best matches, snippet-truncated.
func (b *Backend) Search(ctx context.Context, query string, topK, snippetChars int) ([]domain.SearchHit, error) {
	terms := queryTerms(query)
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	rows, err := b.db.QueryContext(ctx, "SELECT content, title, uri FROM documents")
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var content, title, uri string
		if err := rows.Scan(&content, &title, &uri); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		score := scoreDocument(content, title, terms)
		if score <= 0 {
			continue
		}

		hits = append(hits, domain.SearchHit{
			Text:  snippet(content, snippetChars),
			Title: title,
			Score: score,
			URI:   uri,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Stats reports the record count and index flags.
func (b *Backend) Stats(ctx context.Context) (domain.StoreStats, error) {
	var count int
	err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("counting documents: %w", err)
	}

	return domain.StoreStats{
		FrameCount:  count,
		HasLexIndex: true,
		HasVecIndex: false,
		Backend:     b.Name(),
	}, nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// Path returns the store file path.
func (b *Backend) Path() string {
	return b.path
}

// queryTerms lower-cases and splits a query into search terms.
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// scoreDocument counts query term occurrences; title matches weigh double.
func scoreDocument(content, title string, terms []string) float64 {
	lowerContent := strings.ToLower(content)
	lowerTitle := strings.ToLower(title)

	var score float64
	for _, term := range terms {
		score += float64(strings.Count(lowerContent, term))
		score += 2 * float64(strings.Count(lowerTitle, term))
	}
	return score
}

// snippet truncates text to at most max characters.
func snippet(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	return text[:max]
}
