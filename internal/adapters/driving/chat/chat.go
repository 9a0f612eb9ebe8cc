// Package chat provides the interactive question-answering session.
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/custodia-labs/memrag-cli/internal/core/ports/driving"
)

// Run starts a chat session. Interactive terminals get the full-screen
// session; pipes and redirects get a plain line loop so the command stays
// scriptable.
func Run(ctx context.Context, query driving.QueryService) error {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		program := tea.NewProgram(NewModel(ctx, query), tea.WithContext(ctx))
		_, err := program.Run()
		return err
	}
	return RunPlain(ctx, query, os.Stdin, os.Stdout)
}

// RunPlain drives the session over plain line-based IO.
func RunPlain(ctx context.Context, query driving.QueryService, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Infrastructure Knowledge Chat")
	fmt.Fprintln(out, "Type 'quit' or 'exit' to end the session")
	fmt.Fprintln(out, "Type 'stats' to see memory statistics")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		switch strings.ToLower(question) {
		case "quit", "exit", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil

		case "stats":
			stats := query.Stats(ctx)
			raw, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "\nMemory Stats: %s\n\n", raw)
			continue
		}

		answer, err := query.Ask(ctx, question, true)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n\n", answer)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(out, "Goodbye!")
	return nil
}
