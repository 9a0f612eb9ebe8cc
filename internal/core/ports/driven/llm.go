package driven

import "context"

// LLMService provides answer generation for the query engine.
//
// Implementations may include:
//   - Ollama (local models, default)
//   - OpenAI-compatible endpoints
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// request that does not run inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// System is the system role description sent with the prompt.
	System string

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// MaxTokens bounds the generated output length.
	MaxTokens int
}
