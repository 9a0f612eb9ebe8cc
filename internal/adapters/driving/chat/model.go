package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/memrag-cli/internal/core/ports/driving"
)

// answerReceived carries the result of an asynchronous ask.
type answerReceived struct {
	answer string
	err    error
}

// Model is the interactive chat session following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type Model struct {
	ctx    context.Context
	query  driving.QueryService
	styles Styles

	input      textinput.Model
	spin       spinner.Model
	transcript []string
	waiting    bool
	width      int
}

// Ensure Model implements tea.Model.
var _ tea.Model = Model{}

// NewModel creates a chat model bound to a query service.
func NewModel(ctx context.Context, query driving.QueryService) Model {
	styles := DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask about your infrastructure..."
	input.Prompt = "You: "
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Muted

	return Model{
		ctx:    ctx,
		query:  query,
		styles: styles,
		input:  input,
		spin:   spin,
		width:  80,
	}
}

// Init initialises the chat model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			return m.submit()
		}

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case answerReceived:
		m.waiting = false
		if msg.err != nil {
			m.transcript = append(m.transcript, m.styles.Error.Render(fmt.Sprintf("Error: %v", msg.err)))
		} else {
			m.transcript = append(m.transcript, m.styles.Answer.Render(msg.answer))
		}
		m.transcript = append(m.transcript, "")
		m.input.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit processes the current input line: session tokens are handled
// locally, everything else goes to the query service.
func (m Model) submit() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}
	m.input.Reset()

	switch strings.ToLower(question) {
	case "quit", "exit", "q":
		return m, tea.Quit

	case "stats":
		m.transcript = append(m.transcript, m.styles.Question.Render("You: stats"))
		m.transcript = append(m.transcript, m.renderStats(), "")
		return m, nil
	}

	m.transcript = append(m.transcript, m.styles.Question.Render("You: "+question))
	m.waiting = true
	m.input.Blur()

	return m, tea.Batch(m.spin.Tick, m.ask(question))
}

// ask runs the query off the update loop.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.query.Ask(m.ctx, question, true)
		return answerReceived{answer: answer, err: err}
	}
}

// renderStats formats the memory statistics as indented JSON.
func (m Model) renderStats() string {
	stats := m.query.Stats(m.ctx)
	raw, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", err))
	}
	return m.styles.Muted.Render("Memory Stats: " + string(raw))
}

// View renders the chat session.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Infrastructure Knowledge Chat"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Type 'quit' to end the session, 'stats' for memory statistics"))
	b.WriteString("\n\n")

	if len(m.transcript) > 0 {
		b.WriteString(strings.Join(m.transcript, "\n"))
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString(m.spin.View())
		b.WriteString(m.styles.Muted.Render(" Generating answer..."))
	} else {
		b.WriteString(m.styles.Input.Width(m.width - 4).Render(m.input.View()))
	}
	b.WriteString("\n")

	return b.String()
}
