package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
)

// fakeTool writes an executable script that prints the given stdout and
// exits 0, and returns a Backend wired to it.
func fakeTool(t *testing.T, stdout string) *Backend {
	t.Helper()
	dir := t.TempDir()

	script := filepath.Join(dir, "memvid")
	body := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\n", stdout)
	require.NoError(t, os.WriteFile(script, []byte(body), 0700))

	return &Backend{command: script, memoryFile: filepath.Join(dir, "kb.mv2")}
}

func TestName(t *testing.T) {
	b := New("kb.mv2")
	assert.Equal(t, "cli", b.Name())
}

func TestRun_MissingExecutable(t *testing.T) {
	b := &Backend{command: "/nonexistent/memvid", memoryFile: "kb.mv2"}

	err := b.Create(context.Background())
	assert.Error(t, err)
}

func TestSearch_ParsesHits(t *testing.T) {
	b := fakeTool(t, `{"hits":[
		{"text":"first chunk body","title":"guide (Part 1/2)","score":0.91,"uri":"mv2://docs/guide.md#chunk-1"},
		{"text":"second chunk body","title":"guide (Part 2/2)","score":0.42,"uri":"mv2://docs/guide.md#chunk-2"}
	]}`)

	hits, err := b.Search(context.Background(), "guide", 5, 500)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "first chunk body", hits[0].Text)
	assert.Equal(t, "guide (Part 1/2)", hits[0].Title)
	assert.InDelta(t, 0.91, hits[0].Score, 1e-9)
	assert.Equal(t, "mv2://docs/guide.md#chunk-1", hits[0].URI)
}

func TestSearch_TruncatesSnippets(t *testing.T) {
	b := fakeTool(t, `{"hits":[{"text":"0123456789abcdef","title":"t","score":1,"uri":"u"}]}`)

	hits, err := b.Search(context.Background(), "q", 5, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "0123456789", hits[0].Text)
}

func TestSearch_EmptyHits(t *testing.T) {
	b := fakeTool(t, `{"hits":[]}`)

	hits, err := b.Search(context.Background(), "nothing", 5, 500)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_MissingHitsKey(t *testing.T) {
	b := fakeTool(t, `{"results":[]}`)

	_, err := b.Search(context.Background(), "q", 5, 500)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSearch_NonJSONOutput(t *testing.T) {
	b := fakeTool(t, "Found 3 results:")

	_, err := b.Search(context.Background(), "q", 5, 500)
	assert.Error(t, err)
}

func TestStats_ParsesOutput(t *testing.T) {
	b := fakeTool(t, `{"frame_count":42,"has_lex_index":true,"has_vec_index":false}`)

	stats, err := b.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, stats.FrameCount)
	assert.True(t, stats.HasLexIndex)
	assert.False(t, stats.HasVecIndex)
	assert.Equal(t, "cli", stats.Backend)
}

func TestStats_NonJSONOutput(t *testing.T) {
	b := fakeTool(t, "Frames: 42")

	_, err := b.Stats(context.Background())
	assert.Error(t, err)
}

func TestCreate_RemovesExistingFile(t *testing.T) {
	b := fakeTool(t, "")
	require.NoError(t, os.WriteFile(b.memoryFile, []byte("stale"), 0600))

	require.NoError(t, b.Create(context.Background()))

	_, err := os.Stat(b.memoryFile)
	assert.True(t, os.IsNotExist(err))
}

func TestAddDocument_CleansUpTempFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "memvid")
	capture := filepath.Join(dir, "args.txt")
	body := fmt.Sprintf("#!/bin/sh\necho \"$@\" > %s\n", capture)
	require.NoError(t, os.WriteFile(script, []byte(body), 0700))

	b := &Backend{command: script, memoryFile: filepath.Join(dir, "kb.mv2")}
	err := b.AddDocument(context.Background(), domain.Document{Content: "chunk body"})
	require.NoError(t, err)

	args, readErr := os.ReadFile(capture)
	require.NoError(t, readErr)
	assert.Contains(t, string(args), "put")
	assert.Contains(t, string(args), "--input")
}
