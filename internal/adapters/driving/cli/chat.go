package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memrag-cli/internal/adapters/driving/chat"
	"github.com/custodia-labs/memrag-cli/internal/core/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question-answering session",
	Long: `Opens an interactive session against the knowledge base. Type 'quit'
or 'exit' to end the session and 'stats' to see memory statistics.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&askMemory, "memory", "m", "", "path to the memory file (.mv2)")
	chatCmd.Flags().StringVar(&askModel, "model", "", "generation model to use")
	chatCmd.Flags().StringVar(&askOllamaURL, "ollama-url", "", "Ollama server URL")
	chatCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of documents to retrieve (default: 5)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	applyQueryFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := openStore(cfg.MemoryFile)
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}
	defer store.Close()

	llmService, err := openLLM(cfg)
	if err != nil {
		return err
	}
	defer llmService.Close()

	engine := services.NewQueryEngine(store, llmService, cfg.TopK, cfg.SnippetChars)
	return chat.Run(cmd.Context(), engine)
}
