package live

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"attune/internal/modules/live/domain"
	"attune/internal/ui/theme"
)

// Model renders the live snapshot in three panes: conversation (transcript
// and response), research (active and recent searches plus sources), and
// insights. It holds no business state; the app model feeds it snapshots.
type Model struct {
	update     domain.Update
	connState  domain.ConnState
	transcript viewport.Model
	width      int
	height     int
}

func New() Model {
	vp := viewport.New(0, 0)
	return Model{transcript: vp, connState: domain.StateConnecting}
}

// SetUpdate replaces the rendered snapshot wholesale.
func (m *Model) SetUpdate(u domain.Update) {
	m.update = u
	m.transcript.SetContent(m.renderConversation())
	m.transcript.GotoBottom()
}

func (m *Model) SetConnState(s domain.ConnState) {
	m.connState = s
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if sz, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = sz.Width
		m.height = sz.Height
		m.resize()
		return m, nil
	}
	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	convW := m.width * 5 / 10
	researchW := m.width * 25 / 100
	insightsW := m.width - convW - researchW

	conv := theme.PaneActive.Width(convW - 2).Height(m.height - 2).
		Render(m.transcript.View())
	research := theme.Pane.Width(researchW - 2).Height(m.height - 2).
		Render(m.renderResearch())
	insights := theme.Pane.Width(insightsW - 2).Height(m.height - 2).
		Render(m.renderInsights())

	return lipgloss.JoinHorizontal(lipgloss.Top, conv, research, insights)
}

// ConnBadge renders the connection state for the status bar.
func (m Model) ConnBadge() string {
	switch m.connState {
	case domain.StateOpen:
		return theme.Good.Render("● live")
	case domain.StateConnecting:
		return theme.Warn.Render("◌ connecting")
	default:
		return theme.Bad.Render("○ retrying")
	}
}

func (m *Model) resize() {
	convW := m.width * 5 / 10
	m.transcript.Width = convW - 4
	m.transcript.Height = m.height - 4
	m.transcript.SetContent(m.renderConversation())
}

func (m Model) renderConversation() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Transcript") + "\n\n")
	if m.update.Transcript == "" {
		sb.WriteString(theme.Muted.Render("waiting for audio…") + "\n")
	} else {
		sb.WriteString(m.update.Transcript + "\n")
	}
	sb.WriteString("\n" + theme.Title.Render("Response") + "\n\n")
	if m.update.Response == "" {
		sb.WriteString(theme.Muted.Render("no response yet") + "\n")
	} else {
		sb.WriteString(m.update.Response + "\n")
	}
	return sb.String()
}

func (m Model) renderResearch() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Research") + "\n\n")

	r := m.update.Research
	if len(r.ActiveSearches) == 0 && len(r.RecentSearches) == 0 && len(m.update.Sources) == 0 {
		sb.WriteString(theme.Muted.Render("idle") + "\n")
		return sb.String()
	}
	if len(m.update.Research.ActiveSearches) > 0 {
		for _, q := range m.update.Research.ActiveSearches {
			sb.WriteString(theme.Warn.Render("⟳ ") + q + "\n")
		}
		sb.WriteString("\n")
	}
	if len(m.update.Research.RecentSearches) > 0 {
		sb.WriteString(theme.Muted.Render("recent") + "\n")
		for _, q := range m.update.Research.RecentSearches {
			sb.WriteString(theme.Muted.Render("  "+q) + "\n")
		}
		sb.WriteString("\n")
	}
	if len(m.update.Sources) > 0 {
		sb.WriteString(theme.Muted.Render("sources") + "\n")
		for i, s := range m.update.Sources {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, theme.Hot.Render(s.Title)))
			if s.Snippet != "" {
				sb.WriteString(theme.Muted.Render("   "+truncate(s.Snippet, 80)) + "\n")
			}
		}
	}
	return sb.String()
}

func (m Model) renderInsights() string {
	ins := m.update.Insights
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Insights") + "\n\n")

	if ins.Empty() {
		sb.WriteString(theme.Muted.Render("nothing extracted yet") + "\n")
		return sb.String()
	}
	if len(ins.KeyTopics) > 0 {
		sb.WriteString(theme.Muted.Render("topics") + "\n")
		for _, topic := range ins.KeyTopics {
			sb.WriteString("  • " + topic + "\n")
		}
		sb.WriteString("\n")
	}
	if len(ins.DecisionsMade) > 0 {
		sb.WriteString(theme.Muted.Render("decisions") + "\n")
		for _, d := range ins.DecisionsMade {
			sb.WriteString("  ✓ " + d + "\n")
		}
		sb.WriteString("\n")
	}
	if len(ins.QuestionsRaised) > 0 {
		sb.WriteString(theme.Muted.Render("questions") + "\n")
		for _, q := range ins.QuestionsRaised {
			sb.WriteString("  ? " + q + "\n")
		}
		sb.WriteString("\n")
	}
	if len(ins.ActionItems) > 0 {
		sb.WriteString(theme.Muted.Render("action items") + "\n")
		for _, item := range ins.ActionItems {
			mark := theme.PriorityStyle(string(item.Priority)).Render("■")
			line := "  " + mark + " " + item.Text
			if item.AssignedTo != "" {
				line += theme.Muted.Render(" @" + item.AssignedTo)
			}
			if item.Completed {
				line += theme.Good.Render(" done")
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String()
}

func truncate(text string, max int) string {
	if len(text) > max {
		return text[:max] + "…"
	}
	return text
}
