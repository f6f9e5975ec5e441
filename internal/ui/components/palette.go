package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"attune/internal/modules/command/domain"
	"attune/internal/ui/theme"
)

// PaletteInvokeMsg is emitted when the user confirms the highlighted
// command. The palette has already closed and cleared itself by then.
type PaletteInvokeMsg struct{ Command domain.Descriptor }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	paletteSelected = lipgloss.NewStyle().Foreground(theme.Lavender).Bold(true)
	paletteEntry    = lipgloss.NewStyle().Foreground(theme.Subtext0)
	paletteShortcut = lipgloss.NewStyle().Foreground(theme.Sapphire)
)

// Palette is the command-palette overlay. It filters the fixed command
// registry by name and keywords and navigates matches with wraparound.
type Palette struct {
	input    textinput.Model
	registry []domain.Descriptor
	filtered []domain.Descriptor
	selected int
	visible  bool
	width    int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type to filter commands…"
	ti.CharLimit = 128
	registry := domain.Registry()
	return Palette{input: ti, registry: registry, filtered: registry}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with a cleared filter and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	p.filtered = p.registry
	p.selected = 0
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "down":
			p.selected = domain.Step(p.selected, 1, len(p.filtered))
			return p, nil
		case "up":
			p.selected = domain.Step(p.selected, -1, len(p.filtered))
			return p, nil
		case "enter":
			if len(p.filtered) == 0 {
				return p, nil
			}
			chosen := p.filtered[p.selected]
			// Close and clear unconditionally; the outcome of the command
			// does not reopen the palette.
			p.close()
			return p, func() tea.Msg { return PaletteInvokeMsg{Command: chosen} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.filtered = domain.Filter(p.registry, p.input.Value())
	if p.selected >= len(p.filtered) {
		p.selected = 0
	}
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.SetValue("")
	p.input.Blur()
	p.filtered = p.registry
	p.selected = 0
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Commands") + "\n")
	sb.WriteString("> " + p.input.View() + "\n\n")

	if len(p.filtered) == 0 {
		sb.WriteString(theme.Muted.Render("  no matching commands") + "\n")
	}
	for i, d := range p.filtered {
		line := d.Name
		if d.Shortcut != "" {
			line += "  " + paletteShortcut.Render(d.Shortcut)
		}
		if i == p.selected {
			sb.WriteString(paletteSelected.Render("› "+line) + "\n")
		} else {
			sb.WriteString(paletteEntry.Render("  "+line) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
