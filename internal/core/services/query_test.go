package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// fakeLLM captures the last prompt and returns a canned answer.
type fakeLLM struct {
	answer     string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.lastPrompt = prompt
	f.lastOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-model" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

func TestRetrieve_FormatsHits(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{
		{Text: "first body", Title: "guide (Part 1/2)", Score: 0.913},
		{Text: "second body", Title: "guide (Part 2/2)", Score: 0.4},
	}}
	engine := NewQueryEngine(store, &fakeLLM{}, 5, 500)

	got := engine.Retrieve(context.Background(), "anything")

	assert.Contains(t, got, "### Document 1: guide (Part 1/2) (relevance: 0.91)")
	assert.Contains(t, got, "first body")
	assert.Contains(t, got, "### Document 2: guide (Part 2/2) (relevance: 0.40)")
	assert.Contains(t, got, "second body")
}

func TestRetrieve_UntitledHit(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{{Text: "body", Score: 1}}}
	engine := NewQueryEngine(store, &fakeLLM{}, 5, 500)

	got := engine.Retrieve(context.Background(), "q")
	assert.Contains(t, got, "### Document 1: Untitled (relevance: 1.00)")
}

func TestRetrieve_NoHits(t *testing.T) {
	engine := NewQueryEngine(&fakeStore{}, &fakeLLM{}, 5, 500)

	got := engine.Retrieve(context.Background(), "unknown topic")
	assert.Equal(t, "No relevant documents found in knowledge base.", got)
}

func TestAsk_BuildsPromptAndOptions(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{
		{Text: "ingress body", Title: "ingress", Score: 0.8},
	}}
	llm := &fakeLLM{answer: "restart the controller"}
	engine := NewQueryEngine(store, llm, 5, 500)

	answer, err := engine.Ask(context.Background(), "how do I fix ingress?", false)
	require.NoError(t, err)
	assert.Equal(t, "restart the controller", answer)

	assert.Contains(t, llm.lastPrompt, "## Context (Retrieved from Knowledge Base):")
	assert.Contains(t, llm.lastPrompt, "ingress body")
	assert.Contains(t, llm.lastPrompt, "## Question:\nhow do I fix ingress?")
	assert.True(t, strings.HasSuffix(llm.lastPrompt, "## Answer:"))

	assert.Contains(t, llm.lastOpts.System, "Infrastructure Specialist")
	assert.InDelta(t, 0.3, llm.lastOpts.Temperature, 1e-9)
	assert.Equal(t, 2048, llm.lastOpts.MaxTokens)
}

func TestAsk_IncludeSourcesTrailer(t *testing.T) {
	store := &fakeStore{hits: []domain.SearchHit{{Text: "b", Title: "t", Score: 1}}}
	llm := &fakeLLM{answer: "the answer"}
	engine := NewQueryEngine(store, llm, 5, 500)

	answer, err := engine.Ask(context.Background(), "q", true)
	require.NoError(t, err)
	assert.Equal(t, "the answer\n\n---\nBased on 5 retrieved documents", answer)
}

func TestAsk_GenerationStillRunsWithoutContext(t *testing.T) {
	llm := &fakeLLM{answer: "I don't have specific information about that in my knowledge base."}
	engine := NewQueryEngine(&fakeStore{}, llm, 5, 500)

	_, err := engine.Ask(context.Background(), "unknown", false)
	require.NoError(t, err)
	assert.Contains(t, llm.lastPrompt, "No relevant documents found in knowledge base.")
}

func TestAsk_GenerationFailureIsFatal(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	engine := NewQueryEngine(&fakeStore{}, llm, 5, 500)

	_, err := engine.Ask(context.Background(), "q", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating answer")
}

func TestStats_PassesThrough(t *testing.T) {
	store := &fakeStore{stats: map[string]any{"frame_count": 7, "backend": "sqlite"}}
	engine := NewQueryEngine(store, &fakeLLM{}, 5, 500)

	stats := engine.Stats(context.Background())
	assert.Equal(t, 7, stats["frame_count"])
}
