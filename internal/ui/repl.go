// Package ui hosts the interactive terminal front end: a Bubble Tea loop
// around one long-lived session, one submission per line.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"branec/internal/compiler"
	"branec/internal/diag"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	historyLimit = 200
)

// ReplModel is the Bubble Tea model for the incremental prompt. Submissions
// run asynchronously so a slow index lookup keeps the spinner alive instead
// of freezing the input.
type ReplModel struct {
	session *compiler.Session
	input   textinput.Model
	spin    spinner.Model
	history []string
	busy    bool
	quit    bool
}

type compileDoneMsg struct {
	src string
	doc *compiler.Document
	bag *diag.Bag
}

// NewReplModel wires the prompt around an open session. The model does not
// close the session; the caller owns its lifecycle.
func NewReplModel(session *compiler.Session) *ReplModel {
	in := textinput.New()
	in.Prompt = promptStyle.Render("branec> ")
	in.Placeholder = `let x: Int = 5;  (:quit to leave)`
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &ReplModel{
		session: session,
		input:   in,
		spin:    sp,
	}
}

func (m *ReplModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *ReplModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.quit = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			if line == ":quit" || line == ":q" {
				m.quit = true
				return m, tea.Quit
			}
			m.input.Reset()
			m.busy = true
			return m, tea.Batch(m.spin.Tick, m.compile(line))
		}

	case compileDoneMsg:
		m.busy = false
		m.push(m.renderOutcome(msg))
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ReplModel) View() string {
	var b strings.Builder
	for _, h := range m.history {
		b.WriteString(h)
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(m.spin.View())
		b.WriteString(faintStyle.Render(" compiling..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *ReplModel) compile(src string) tea.Cmd {
	return func() tea.Msg {
		doc, bag := m.session.Compile(context.Background(), []byte(src))
		return compileDoneMsg{src: src, doc: doc, bag: bag}
	}
}

func (m *ReplModel) push(entry string) {
	m.history = append(m.history, entry)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

func (m *ReplModel) renderOutcome(msg compileDoneMsg) string {
	var b strings.Builder
	b.WriteString(faintStyle.Render("branec> " + msg.src))
	b.WriteString("\n")

	if msg.bag.Len() > 0 {
		var buf bytes.Buffer
		_ = diag.Render(&buf, msg.bag, "repl", []byte(msg.src), diag.RenderOptions{Notes: true})
		b.WriteString(strings.TrimRight(buf.String(), "\n"))
		b.WriteString("\n")
	}

	switch {
	case msg.doc != nil && msg.bag.HasWarnings():
		b.WriteString(warnStyle.Render(summary(msg.doc) + " (with warnings)"))
	case msg.doc != nil:
		b.WriteString(okStyle.Render(summary(msg.doc)))
	default:
		b.WriteString(failStyle.Render("submission failed; table unchanged"))
	}
	return b.String()
}

func summary(doc *compiler.Document) string {
	t := doc.Workflow.Table
	return fmt.Sprintf("ok: %d edge(s), %d func(s), %d task(s), %d var(s), %d byte document",
		len(doc.Workflow.Graph), len(t.Funcs), len(t.Tasks), len(t.Vars), len(doc.JSON))
}
