// Package cli provides the memrag command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/memrag-cli/internal/adapters/driven/llm"
	"github.com/custodia-labs/memrag-cli/internal/adapters/driven/memory"
	"github.com/custodia-labs/memrag-cli/internal/config"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memrag-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// cfg holds the configuration resolved in the persistent pre-run.
var cfg config.Config

// Service constructors, replaceable in tests.
var (
	openStore = func(memoryFile string) (driven.MemoryStore, error) {
		return memory.OpenDefault(memoryFile)
	}
	openLLM = func(c config.Config) (driven.LLMService, error) {
		return llm.CreateAndValidateService(c)
	}
)

var rootCmd = &cobra.Command{
	Use:   "memrag",
	Short: "Retrieval-augmented infrastructure knowledge base",
	Long: `memrag ingests infrastructure documentation into a searchable memory
file and answers questions about it using a local or remote LLM.

Documents are chunked at natural boundaries, stored with their source
metadata and retrieved as context for every query.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		loaded, err := config.Load("")
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
