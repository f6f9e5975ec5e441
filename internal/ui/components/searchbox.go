package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"attune/internal/modules/command/domain"
	searchdto "attune/internal/modules/search/dto"
	"attune/internal/ui/theme"
)

// SearchInputMsg is emitted whenever the query text changes; the app model
// feeds it into the debounce coordinator.
type SearchInputMsg struct{ Text string }

// SearchChooseMsg is emitted when the user picks a hit.
type SearchChooseMsg struct{ Hit searchdto.Hit }

// SearchCancelMsg is emitted when the overlay closes without a choice.
type SearchCancelMsg struct{}

var searchStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Sapphire).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// SearchBox is the history-search overlay. Debounce and sequencing live in
// the search coordinator; this component only renders input and results.
type SearchBox struct {
	input     textinput.Model
	visible   bool
	width     int
	selected  int
	searching bool
	hits      []searchdto.Hit
}

func NewSearchBox() SearchBox {
	ti := textinput.New()
	ti.Placeholder = "search session history…"
	ti.CharLimit = 128
	return SearchBox{input: ti}
}

func (s SearchBox) Visible() bool { return s.visible }

func (s *SearchBox) Open() tea.Cmd {
	s.visible = true
	s.input.SetValue("")
	s.hits = nil
	s.selected = 0
	s.searching = false
	return s.input.Focus()
}

func (s *SearchBox) SetWidth(w int) { s.width = w }

// SetHits replaces the result list, clamping the selection.
func (s *SearchBox) SetHits(hits []searchdto.Hit) {
	s.hits = hits
	s.searching = false
	if s.selected >= len(hits) {
		s.selected = 0
	}
}

// SetSearching marks a request in flight, shown as a hint in the view.
func (s *SearchBox) SetSearching(v bool) { s.searching = v }

func (s SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd) {
	if !s.visible {
		return s, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			s.close()
			return s, func() tea.Msg { return SearchCancelMsg{} }
		case "down":
			s.selected = domain.Step(s.selected, 1, len(s.hits))
			return s, nil
		case "up":
			s.selected = domain.Step(s.selected, -1, len(s.hits))
			return s, nil
		case "enter":
			if len(s.hits) == 0 {
				return s, nil
			}
			chosen := s.hits[s.selected]
			s.close()
			return s, func() tea.Msg { return SearchChooseMsg{Hit: chosen} }
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if after := s.input.Value(); after != before {
		text := after
		return s, tea.Batch(cmd, func() tea.Msg { return SearchInputMsg{Text: text} })
	}
	return s, cmd
}

func (s *SearchBox) close() {
	s.visible = false
	s.input.SetValue("")
	s.input.Blur()
	s.hits = nil
	s.selected = 0
	s.searching = false
}

func (s SearchBox) View() string {
	if !s.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Search History") + "\n")
	sb.WriteString("/ " + s.input.View() + "\n")

	switch {
	case s.searching:
		sb.WriteString("\n" + theme.Muted.Render("  searching…") + "\n")
	case len(s.hits) == 0:
		sb.WriteString("\n" + theme.Muted.Render("  no matches") + "\n")
	default:
		sb.WriteString("\n")
		for i, h := range s.hits {
			name := h.SessionName
			if name == "" {
				name = h.SessionID
			}
			line := theme.Hot.Render(name) + " " + theme.Muted.Render(compact(h.Preview, 60))
			if i == s.selected {
				sb.WriteString(paletteSelected.Render("› ") + line + "\n")
			} else {
				sb.WriteString("  " + line + "\n")
			}
		}
	}

	w := s.width
	if w < 20 {
		w = 72
	}
	return searchStyle.Width(w - 2).Render(sb.String())
}

func compact(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > max {
		return text[:max] + "…"
	}
	return text
}
