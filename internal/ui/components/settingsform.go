package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	settingsdto "attune/internal/modules/settings/dto"
	"attune/internal/ui/theme"
)

// SettingsSaveMsg carries the edited values back to the app.
type SettingsSaveMsg struct{ Input settingsdto.UpdateInput }

// SettingsCancelMsg closes the form without saving.
type SettingsCancelMsg struct{}

var settingsStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Lavender).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

const (
	fieldTheme = iota
	fieldProvider
	fieldNotifications
	fieldVoice
	fieldCount
)

// SettingsForm edits the backend preference blob. Text fields are edited
// inline; booleans toggle with space.
type SettingsForm struct {
	visible       bool
	width         int
	field         int
	theme         textinput.Model
	provider      textinput.Model
	notifications bool
	voice         bool
}

func NewSettingsForm() SettingsForm {
	th := textinput.New()
	th.CharLimit = 64
	pr := textinput.New()
	pr.CharLimit = 64
	return SettingsForm{theme: th, provider: pr}
}

func (f SettingsForm) Visible() bool { return f.visible }

// Open seeds the form from current settings and focuses the first field.
func (f *SettingsForm) Open(current settingsdto.Settings) tea.Cmd {
	f.visible = true
	f.field = fieldTheme
	f.theme.SetValue(current.Theme)
	f.provider.SetValue(current.LLMProvider)
	f.notifications = current.NotificationEnabled
	f.voice = current.VoiceCommandsEnabled
	f.provider.Blur()
	return f.theme.Focus()
}

func (f *SettingsForm) SetWidth(w int) { f.width = w }

func (f SettingsForm) Update(msg tea.Msg) (SettingsForm, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			f.close()
			return f, func() tea.Msg { return SettingsCancelMsg{} }
		case "tab", "down":
			return f, f.focusField((f.field + 1) % fieldCount)
		case "shift+tab", "up":
			return f, f.focusField((f.field + fieldCount - 1) % fieldCount)
		case " ":
			switch f.field {
			case fieldNotifications:
				f.notifications = !f.notifications
				return f, nil
			case fieldVoice:
				f.voice = !f.voice
				return f, nil
			}
		case "enter":
			input := f.collect()
			f.close()
			return f, func() tea.Msg { return SettingsSaveMsg{Input: input} }
		}
	}

	var cmd tea.Cmd
	switch f.field {
	case fieldTheme:
		f.theme, cmd = f.theme.Update(msg)
	case fieldProvider:
		f.provider, cmd = f.provider.Update(msg)
	}
	return f, cmd
}

func (f *SettingsForm) focusField(n int) tea.Cmd {
	f.field = n
	f.theme.Blur()
	f.provider.Blur()
	switch n {
	case fieldTheme:
		return f.theme.Focus()
	case fieldProvider:
		return f.provider.Focus()
	}
	return nil
}

func (f *SettingsForm) close() {
	f.visible = false
	f.theme.Blur()
	f.provider.Blur()
}

func (f SettingsForm) collect() settingsdto.UpdateInput {
	themeVal := f.theme.Value()
	providerVal := f.provider.Value()
	notifications := f.notifications
	voice := f.voice
	return settingsdto.UpdateInput{
		Theme:                &themeVal,
		LLMProvider:          &providerVal,
		NotificationEnabled:  &notifications,
		VoiceCommandsEnabled: &voice,
	}
}

func (f SettingsForm) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Settings") + "\n\n")
	sb.WriteString(f.fieldLabel(fieldTheme, "theme    ") + f.theme.View() + "\n")
	sb.WriteString(f.fieldLabel(fieldProvider, "provider ") + f.provider.View() + "\n")
	sb.WriteString(f.fieldLabel(fieldNotifications, "notify   ") + toggleMark(f.notifications) + "\n")
	sb.WriteString(f.fieldLabel(fieldVoice, "voice    ") + toggleMark(f.voice) + "\n")
	sb.WriteString("\n" + theme.Muted.Render("tab: next  space: toggle  enter: save  esc: cancel") + "\n")

	w := f.width
	if w < 20 {
		w = 56
	}
	return settingsStyle.Width(w - 2).Render(sb.String())
}

func (f SettingsForm) fieldLabel(n int, label string) string {
	if f.field == n {
		return paletteSelected.Render("› " + label)
	}
	return "  " + theme.Muted.Render(label)
}

func toggleMark(on bool) string {
	if on {
		return theme.Good.Render("on")
	}
	return theme.Muted.Render("off")
}
