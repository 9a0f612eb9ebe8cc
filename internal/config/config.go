// Package config builds the immutable runtime configuration from layered
// sources: built-in defaults, then the TOML config file, then environment
// variables. CLI flags are applied last by the command layer.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
)

// Default configuration values.
const (
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultModel         = "qwen2.5-coder:32b"
	DefaultProvider      = "ollama"
	DefaultMemoryFile    = "./memories/infrastructure.mv2"
	DefaultTopK          = 5
	DefaultSnippetChars  = 500
	DefaultChunkSize     = 800
	DefaultChunkOverlap  = 100
)

// Supported generation providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds the resolved RAG configuration. It is constructed once per
// process invocation and never mutated after the query engine is built.
type Config struct {
	// OllamaBaseURL is the generation endpoint for the ollama provider.
	OllamaBaseURL string `toml:"ollama_base_url"`

	// Model is the generation model identifier.
	Model string `toml:"model"`

	// Provider selects the generation backend ("ollama" or "openai").
	Provider string `toml:"provider"`

	// OpenAIAPIKey authenticates the openai provider.
	OpenAIAPIKey string `toml:"openai_api_key"`

	// MemoryFile is the path of the memory store (.mv2).
	MemoryFile string `toml:"memory_file"`

	// TopK is the maximum number of search hits per query.
	TopK int `toml:"top_k"`

	// SnippetChars bounds the length of each retrieved snippet.
	SnippetChars int `toml:"snippet_chars"`

	// ChunkSize is the chunk window in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int `toml:"chunk_overlap"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OllamaBaseURL: DefaultOllamaBaseURL,
		Model:         DefaultModel,
		Provider:      DefaultProvider,
		MemoryFile:    DefaultMemoryFile,
		TopK:          DefaultTopK,
		SnippetChars:  DefaultSnippetChars,
		ChunkSize:     DefaultChunkSize,
		ChunkOverlap:  DefaultChunkOverlap,
	}
}

// Load resolves the configuration from defaults, the config file and the
// environment, in that order. If configDir is empty, ~/.memrag is used.
// A missing config file is not an error.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".memrag")
	}

	if err := cfg.applyFile(filepath.Join(configDir, "config.toml")); err != nil {
		return cfg, err
	}

	cfg.ApplyEnv(os.LookupEnv)

	return cfg, nil
}

// applyFile merges values from a TOML config file. Absent file is ignored.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv merges values from environment variables. The lookup function is
// injectable for testing; pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString("OLLAMA_BASE_URL", &c.OllamaBaseURL)
	setString("OLLAMA_MODEL", &c.Model)
	setString("MEMRAG_PROVIDER", &c.Provider)
	setString("OPENAI_API_KEY", &c.OpenAIAPIKey)
	setString("MEMVID_MEMORY_FILE", &c.MemoryFile)
	setInt("RAG_TOP_K", &c.TopK)
	setInt("RAG_SNIPPET_CHARS", &c.SnippetChars)
	setInt("RAG_CHUNK_SIZE", &c.ChunkSize)
	setInt("RAG_CHUNK_OVERLAP", &c.ChunkOverlap)
}

// Validate reports configuration errors. These are fatal at startup.
func (c Config) Validate() error {
	u, err := url.Parse(c.OllamaBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: invalid ollama base URL %q", domain.ErrInvalidInput, c.OllamaBaseURL)
	}
	if c.Provider != ProviderOllama && c.Provider != ProviderOpenAI {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model must not be empty", domain.ErrInvalidInput)
	}
	if c.MemoryFile == "" {
		return fmt.Errorf("%w: memory file must not be empty", domain.ErrInvalidInput)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive", domain.ErrInvalidInput)
	}
	if c.SnippetChars <= 0 {
		return fmt.Errorf("%w: snippet chars must be positive", domain.ErrInvalidInput)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", domain.ErrInvalidInput)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
