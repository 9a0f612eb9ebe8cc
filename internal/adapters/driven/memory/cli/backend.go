// Package cli provides the memory backend that shells out to the memvid
// command-line tool.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/custodia-labs/memrag-cli/internal/core/domain"
	"github.com/custodia-labs/memrag-cli/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.MemoryBackend = (*Backend)(nil)

// DefaultCommand is the memvid executable name looked up on PATH.
const DefaultCommand = "memvid"

// Operation timeouts, matching the external tool's expected latencies.
const (
	createTimeout = 30 * time.Second
	putTimeout    = 60 * time.Second
	findTimeout   = 30 * time.Second
	statsTimeout  = 30 * time.Second
)

// Backend drives the memvid CLI via subprocesses.
type Backend struct {
	command    string
	memoryFile string
}

// Available reports whether the memvid executable can be found on PATH.
// Evaluated by the probe chain before the backend is constructed.
func Available() bool {
	_, err := exec.LookPath(DefaultCommand)
	return err == nil
}

// New creates a CLI backend for the given memory file.
func New(memoryFile string) *Backend {
	return &Backend{command: DefaultCommand, memoryFile: memoryFile}
}

// Name returns the backend variant name.
func (b *Backend) Name() string {
	return "cli"
}

// run executes one memvid subcommand with a bounded timeout.
func (b *Backend) run(ctx context.Context, timeout time.Duration, args ...string) (stdout []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, b.command, args...)

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		if errOut.Len() > 0 {
			return nil, fmt.Errorf("%s %s: %w: %s", b.command, args[0], err, errOut.String())
		}
		return nil, fmt.Errorf("%s %s: %w", b.command, args[0], err)
	}
	return out.Bytes(), nil
}

// Create initialises a new memory file, replacing any existing one.
func (b *Backend) Create(ctx context.Context) error {
	if err := os.Remove(b.memoryFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing memory file: %w", err)
	}

	_, err := b.run(ctx, createTimeout, "create", b.memoryFile)
	return err
}

// AddDocument writes the chunk content to a scoped temporary file and hands
// it to memvid put. The temporary file is removed on every exit path.
func (b *Backend) AddDocument(ctx context.Context, doc domain.Document) error {
	tmp, err := os.CreateTemp("", "memrag-put-*.txt")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(doc.Content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	_, err = b.run(ctx, putTimeout, "put", b.memoryFile, "--input", tmp.Name())
	return err
}

// findResponse is the expected shape of memvid find --json output.
type findResponse struct {
	Hits []struct {
		Text  string  `json:"text"`
		Title string  `json:"title"`
		Score float64 `json:"score"`
		URI   string  `json:"uri"`
	} `json:"hits"`
}

// Search runs memvid find and decodes its JSON output. Output that is not
// JSON, or that lacks the hits key, is a parse error; callers degrade it to
// an empty result set.
func (b *Backend) Search(ctx context.Context, query string, topK, snippetChars int) ([]domain.SearchHit, error) {
	out, err := b.run(ctx, findTimeout, "find", b.memoryFile,
		"--query", query, "--limit", fmt.Sprintf("%d", topK), "--json")
	if err != nil {
		return nil, err
	}

	var resp findResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("parsing find output: %w", err)
	}
	if resp.Hits == nil {
		return nil, fmt.Errorf("parsing find output: %w: missing hits", domain.ErrInvalidInput)
	}

	hits := make([]domain.SearchHit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		text := h.Text
		if snippetChars > 0 && len(text) > snippetChars {
			text = text[:snippetChars]
		}
		hits = append(hits, domain.SearchHit{
			Text:  text,
			Title: h.Title,
			Score: h.Score,
			URI:   h.URI,
		})
	}
	return hits, nil
}

// statsResponse is the expected shape of memvid stats --json output.
type statsResponse struct {
	FrameCount  int  `json:"frame_count"`
	HasLexIndex bool `json:"has_lex_index"`
	HasVecIndex bool `json:"has_vec_index"`
}

// Stats runs memvid stats and decodes its JSON output.
func (b *Backend) Stats(ctx context.Context) (domain.StoreStats, error) {
	out, err := b.run(ctx, statsTimeout, "stats", b.memoryFile, "--json")
	if err != nil {
		return domain.StoreStats{}, err
	}

	var resp statsResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return domain.StoreStats{}, fmt.Errorf("parsing stats output: %w", err)
	}

	return domain.StoreStats{
		FrameCount:  resp.FrameCount,
		HasLexIndex: resp.HasLexIndex,
		HasVecIndex: resp.HasVecIndex,
		Backend:     b.Name(),
	}, nil
}

// Close releases resources. Subprocess invocations hold none.
func (b *Backend) Close() error {
	return nil
}
