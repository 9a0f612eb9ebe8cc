package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memrag-cli/internal/core/services"
)

var (
	askMemory    string
	askModel     string
	askOllamaURL string
	askTopK      int
	askNoSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question against the knowledge base",
	Long: `Retrieves the most relevant document chunks for the question and
generates an answer grounded in them.`,
	Example: `  memrag ask "How do I configure AKS autoscaling?"

  # Use a specific memory file and model
  memrag ask -m ./memories/k8s-docs.mv2 --model deepseek-coder-v2:16b "Explain Terraform modules"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMemory, "memory", "m", "", "path to the memory file (.mv2)")
	askCmd.Flags().StringVar(&askModel, "model", "", "generation model to use")
	askCmd.Flags().StringVar(&askOllamaURL, "ollama-url", "", "Ollama server URL")
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of documents to retrieve (default: 5)")
	askCmd.Flags().BoolVar(&askNoSources, "no-sources", false, "don't show source information in answers")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	answer, err := engine.Ask(cmd.Context(), args[0], !askNoSources)
	if err != nil {
		return err
	}

	cmd.Println(answer)
	return nil
}

// applyQueryFlags merges the shared retrieval flags into the configuration.
func applyQueryFlags(cmd *cobra.Command) {
	if askMemory != "" {
		cfg.MemoryFile = askMemory
	}
	if askModel != "" {
		cfg.Model = askModel
	}
	if askOllamaURL != "" {
		cfg.OllamaBaseURL = askOllamaURL
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = askTopK
	}
}
