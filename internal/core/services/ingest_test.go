package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/loaders"
)

// fakeStore records added documents and can fail selectively.
type fakeStore struct {
	docs      []domain.Document
	addErr    error
	failEvery int
	hits      []domain.SearchHit
	stats     map[string]any
}

func (f *fakeStore) Backend() string { return "fake" }

func (f *fakeStore) Create(context.Context) error { return nil }

func (f *fakeStore) AddDocument(_ context.Context, doc domain.Document) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.failEvery > 0 && (len(f.docs)+1)%f.failEvery == 0 {
		return errors.New("transient store failure")
	}
	f.docs = append(f.docs, doc)
	return nil
}

func (f *fakeStore) Search(context.Context, string, int, int) []domain.SearchHit {
	return f.hits
}

func (f *fakeStore) Stats(context.Context) map[string]any {
	return f.stats
}

func (f *fakeStore) Close() error { return nil }

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestIngest_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "runbook.md", "Restart the ingress controller before rotating certificates.")

	store := &fakeStore{}
	svc := NewIngestService(loaders.Default(chunker.New()), store)

	count, err := svc.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.docs, 1)
	assert.Equal(t, "mv2://docs/runbook.md#chunk-1", store.docs[0].URI)
}

func TestIngest_Directory(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "one.md", "Document one content.")
	writeDoc(t, dir, "two.txt", "Document two content.")
	writeDoc(t, dir, "skip.csv", "not,a,supported,type")

	store := &fakeStore{}
	svc := NewIngestService(loaders.Default(chunker.New()), store)

	count, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngest_MissingPath(t *testing.T) {
	store := &fakeStore{}
	svc := NewIngestService(loaders.Default(chunker.New()), store)

	_, err := svc.Ingest(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestIngest_EmptyDirectory(t *testing.T) {
	store := &fakeStore{}
	svc := NewIngestService(loaders.Default(chunker.New()), store)

	_, err := svc.Ingest(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestIngest_SkipsFailedChunks(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "one.md", "First document body.")
	writeDoc(t, dir, "two.md", "Second document body.")

	store := &fakeStore{failEvery: 2}
	svc := NewIngestService(loaders.Default(chunker.New()), store)

	count, err := svc.Ingest(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIngest_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "one.md", "Body.")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &fakeStore{}
	svc := NewIngestService(loaders.Default(chunker.New()), store)

	_, err := svc.Ingest(ctx, dir)
	assert.Error(t, err)
}
