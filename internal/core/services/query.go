package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// Ensure QueryEngine implements the interface.
var _ driving.QueryService = (*QueryEngine)(nil)

// noContextSentinel stands in for the context block when retrieval finds
// nothing; the generation backend still runs so the model can say so.
const noContextSentinel = "No relevant documents found in knowledge base."

// systemPrompt frames the model as an infrastructure specialist bound to
// the retrieved context.
const systemPrompt = `You are an Infrastructure Specialist assistant with expertise in:
- Kubernetes (AKS, OpenShift, TKG)
- Terraform and Infrastructure as Code
- Ansible automation
- Cloud platforms (Azure, AWS, GCP)
- DevOps practices

Answer questions based ONLY on the provided context. If the context doesn't contain
relevant information, say "I don't have specific information about that in my knowledge base."

Be concise, accurate, and provide code examples when relevant.`

// ragPromptTemplate wraps the retrieved context and the question.
const ragPromptTemplate = `Based on the following context, answer the question.

## Context (Retrieved from Knowledge Base):
%s

## Question:
%s

## Answer:`

// Generation parameters. Low temperature keeps answers factual.
const (
	generateTemperature = 0.3
	generateMaxTokens   = 2048
)

// QueryEngine answers questions by retrieving context from the memory
// store and feeding it to the generation backend.
type QueryEngine struct {
	store        driven.MemoryStore
	llm          driven.LLMService
	topK         int
	snippetChars int
}

// NewQueryEngine creates a new query engine.
func NewQueryEngine(store driven.MemoryStore, llm driven.LLMService, topK, snippetChars int) *QueryEngine {
	return &QueryEngine{
		store:        store,
		llm:          llm,
		topK:         topK,
		snippetChars: snippetChars,
	}
}

// Retrieve returns the formatted context block for a query. Retrieval never
// fails: an empty or errored search degrades to the sentinel line.
func (e *QueryEngine) Retrieve(ctx context.Context, query string) string {
	hits := e.store.Search(ctx, query, e.topK, e.snippetChars)
	if len(hits) == 0 {
		return noContextSentinel
	}

	var parts []string
	for i, hit := range hits {
		title := hit.Title
		if title == "" {
			title = "Untitled"
		}
		parts = append(parts, fmt.Sprintf("### Document %d: %s (relevance: %.2f)", i+1, title, hit.Score))
		parts = append(parts, hit.Text)
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

// Ask retrieves context for the question and generates an answer. When
// includeSources is set the answer carries a trailer reporting the
// configured retrieval depth.
func (e *QueryEngine) Ask(ctx context.Context, question string, includeSources bool) (string, error) {
	logger.Debug("Query: %s", question)

	contextBlock := e.Retrieve(ctx, question)
	prompt := fmt.Sprintf(ragPromptTemplate, contextBlock, question)

	answer, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      systemPrompt,
		Temperature: generateTemperature,
		MaxTokens:   generateMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	if includeSources {
		return fmt.Sprintf("%s\n\n---\nBased on %d retrieved documents", answer, e.topK), nil
	}
	return answer, nil
}

// Stats reports memory store metrics.
func (e *QueryEngine) Stats(ctx context.Context) map[string]any {
	return e.store.Stats(ctx)
}
