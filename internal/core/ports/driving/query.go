package driving

import "context"

// QueryService answers questions against the ingested knowledge base.
type QueryService interface {
	// Ask retrieves relevant context for the question and generates an
	// answer. When includeSources is set the answer carries a trailer
	// reporting the retrieval count.
	Ask(ctx context.Context, question string, includeSources bool) (string, error)

	// Retrieve returns the formatted context block for a query without
	// invoking the generation backend.
	Retrieve(ctx context.Context, query string) string

	// Stats reports memory store metrics.
	Stats(ctx context.Context) map[string]any
}
