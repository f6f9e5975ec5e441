package sessions

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	sessiondto "attune/internal/modules/session/dto"
	"attune/internal/ui/theme"
)

// TabBar renders the session strip. It is stateless; the app model passes
// the current list on every render.
type TabBar struct {
	width int
}

func NewTabBar() TabBar { return TabBar{} }

func (t *TabBar) SetWidth(w int) { t.width = w }

func (t TabBar) View(sessions []sessiondto.SessionOutput) string {
	if len(sessions) == 0 {
		bar := "attune  " + theme.Muted.Render("no sessions — ctrl+n to create one")
		return lipgloss.NewStyle().Background(theme.Mantle).Width(t.width).Render(bar) + "\n"
	}

	parts := make([]string, len(sessions))
	for i, s := range sessions {
		label := " " + s.Name
		if s.Running {
			label += " " + theme.Good.Render("▶")
		}
		label += " "
		if s.Active {
			parts[i] = theme.Hot.Render(label)
		} else {
			parts[i] = theme.Muted.Render(label)
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "attune  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(t.width).Render(bar) + "\n"
}
