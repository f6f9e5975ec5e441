package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"attune/internal/ui/theme"
)

// PromptKind distinguishes what the single-line prompt is collecting.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptNewSession
	PromptDeepDive
)

// PromptSubmitMsg carries the confirmed input.
type PromptSubmitMsg struct {
	Kind PromptKind
	Text string
}

// PromptCancelMsg is emitted when the prompt closes without input.
type PromptCancelMsg struct{}

var promptStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Prompt is a one-line input overlay used for session names and deep-dive
// queries.
type Prompt struct {
	input   textinput.Model
	kind    PromptKind
	title   string
	visible bool
	width   int
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 256
	return Prompt{input: ti}
}

func (p Prompt) Visible() bool { return p.visible }

func (p *Prompt) Open(kind PromptKind, title, placeholder string) tea.Cmd {
	p.visible = true
	p.kind = kind
	p.title = title
	p.input.Placeholder = placeholder
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Prompt) SetWidth(w int) { p.width = w }

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PromptCancelMsg{} }
		case "enter":
			text := strings.TrimSpace(p.input.Value())
			kind := p.kind
			p.close()
			if text == "" {
				return p, func() tea.Msg { return PromptCancelMsg{} }
			}
			return p, func() tea.Msg { return PromptSubmitMsg{Kind: kind, Text: text} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Prompt) close() {
	p.visible = false
	p.kind = PromptNone
	p.input.SetValue("")
	p.input.Blur()
}

func (p Prompt) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.title) + "\n")
	sb.WriteString("> " + p.input.View() + "\n")

	w := p.width
	if w < 20 {
		w = 56
	}
	return promptStyle.Width(w - 2).Render(sb.String())
}
