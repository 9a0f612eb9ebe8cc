package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/custodia-labs/memrag-cli/internal/config"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// stubStore is a minimal in-memory MemoryStore for command tests.
type stubStore struct {
	docs    []domain.Document
	hits    []domain.SearchHit
	stats   map[string]any
	created int
	closed  bool
}

func (s *stubStore) Backend() string { return "stub" }

func (s *stubStore) Create(context.Context) error {
	s.created++
	s.docs = nil
	return nil
}

func (s *stubStore) AddDocument(_ context.Context, doc domain.Document) error {
	s.docs = append(s.docs, doc)
	return nil
}

func (s *stubStore) Search(context.Context, string, int, int) []domain.SearchHit {
	return s.hits
}

func (s *stubStore) Stats(context.Context) map[string]any {
	return s.stats
}

func (s *stubStore) Close() error {
	s.closed = true
	return nil
}

// stubLLM returns a canned answer for every prompt.
type stubLLM struct {
	answer string
}

func (s *stubLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return s.answer, nil
}

func (s *stubLLM) ModelName() string          { return "stub-model" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error               { return nil }

// setupTestServices stubs the service constructors and isolates the test
// from the user's config file and environment.
func setupTestServices(t *testing.T) *stubStore {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEMVID_MEMORY_FILE", filepath.Join(t.TempDir(), "kb.mv2"))
	t.Setenv("OLLAMA_BASE_URL", "http://localhost:11434")

	store := &stubStore{stats: map[string]any{"frame_count": 0, "backend": "stub"}}

	oldStore, oldLLM := openStore, openLLM
	openStore = func(string) (driven.MemoryStore, error) { return store, nil }
	openLLM = func(config.Config) (driven.LLMService, error) {
		return &stubLLM{answer: "stub answer"}, nil
	}
	t.Cleanup(func() {
		openStore, openLLM = oldStore, oldLLM
	})

	return store
}

// execute runs the root command with args and captures combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
