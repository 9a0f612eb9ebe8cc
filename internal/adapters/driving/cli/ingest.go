package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memrag-cli/internal/chunker"
	"github.com/custodia-labs/memrag-cli/internal/core/services"
	"github.com/custodia-labs/memrag-cli/internal/loaders"
	"github.com/custodia-labs/memrag-cli/internal/logger"
	"github.com/custodia-labs/memrag-cli/internal/watcher"
)

var (
	ingestInput     string
	ingestOutput    string
	ingestChunkSize int
	ingestOverlap   int
	ingestForce     bool
	ingestWatch     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest documents into the memory file",
	Long: `Loads documents from a file or directory, splits them into chunks at
natural boundaries and stores them in the memory file.

Supported formats: .md, .txt, .rst, .pdf, .docx`,
	Example: `  # Ingest all documents from a directory
  memrag ingest --input ./knowledge --output ./memories/infrastructure.mv2

  # Ingest a single PDF
  memrag ingest --input ./docs/guide.pdf --output ./memories/guide.mv2

  # Custom chunk settings
  memrag ingest --input ./docs --chunk-size 1000 --overlap 200

  # Keep watching for changes after the initial ingest
  memrag ingest --input ./knowledge --watch`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestInput, "input", "i", "", "input file or directory to ingest (required)")
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "", "output memory file (.mv2)")
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "size of text chunks (default: 800)")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap", 0, "overlap between chunks (default: 100)")
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "overwrite existing memory file without asking")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the input for changes")
	_ = ingestCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestOutput != "" {
		cfg.MemoryFile = ingestOutput
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = ingestChunkSize
	}
	if cmd.Flags().Changed("overlap") {
		cfg.ChunkOverlap = ingestOverlap
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := os.Stat(ingestInput); err != nil {
		return fmt.Errorf("input path does not exist: %s", ingestInput)
	}

	if _, err := os.Stat(cfg.MemoryFile); err == nil && !ingestForce {
		cmd.Printf("Output file exists: %s\nOverwrite? [y/N]: ", cfg.MemoryFile)
		if !confirm(cmd) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(cfg.MemoryFile)
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}
	defer store.Close()

	if err := store.Create(ctx); err != nil {
		return fmt.Errorf("creating memory store: %w", err)
	}

	logger.Section("Document Ingestion")
	cmd.Printf("Input: %s\n", ingestInput)
	cmd.Printf("Output: %s (backend: %s)\n", cfg.MemoryFile, store.Backend())
	cmd.Printf("Chunk size: %d, Overlap: %d\n\n", cfg.ChunkSize, cfg.ChunkOverlap)

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.ChunkSize),
		chunker.WithOverlap(cfg.ChunkOverlap),
	)
	registry := loaders.Default(splitter)
	svc := services.NewIngestService(registry, store)

	count, err := svc.Ingest(ctx, ingestInput)
	if err != nil {
		return err
	}
	cmd.Printf("Ingested %d chunks into %s\n", count, cfg.MemoryFile)

	if !ingestWatch {
		return nil
	}

	w, err := watcher.New(ingestInput, registry.Supported, func(ctx context.Context, path string) {
		if n, err := svc.Ingest(ctx, path); err != nil {
			logger.Warn("Re-ingest of %s failed: %v", path, err)
		} else {
			logger.Info("Re-ingested %d chunks from %s", n, path)
		}
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// confirm reads one line from the command input and accepts y/yes.
func confirm(cmd *cobra.Command) bool {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
