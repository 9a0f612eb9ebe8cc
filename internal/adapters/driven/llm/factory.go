// Package llm provides factory functions for creating LLM service adapters.
package llm

import (
	"context"
	"fmt"
	"time"

	ollamallm "github.com/custodia-labs/memrag-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/memrag-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/memrag-cli/internal/config"
	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateService creates the appropriate LLM service for the configured provider.
func CreateService(cfg config.Config) (driven.LLMService, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.Model,
		}), nil

	case config.ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// CreateAndValidateService creates an LLM service and validates connectivity
// with a short ping. Returns an error with guidance when the service is
// unreachable.
func CreateAndValidateService(cfg config.Config) (driven.LLMService, error) {
	svc, err := CreateService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Is the model server running?",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}
