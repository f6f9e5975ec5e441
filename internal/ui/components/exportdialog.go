package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"attune/internal/modules/export/domain"
	"attune/internal/ui/theme"
)

// ExportRequestMsg asks the app to run the export with the chosen options.
type ExportRequestMsg struct {
	Format  domain.Format
	Include domain.Include
}

// ExportCopyMsg and ExportDownloadMsg act on the stored artifact.
type ExportCopyMsg struct{}
type ExportDownloadMsg struct{}

// ExportCloseMsg is emitted when the dialog closes; the app discards the
// artifact in response.
type ExportCloseMsg struct{}

type exportPhase int

const (
	exportPicking exportPhase = iota
	exportWaiting
	exportReady
	exportFailed
)

var exportStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Green).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

var exportFormats = []domain.Format{domain.FormatMarkdown, domain.FormatJSON, domain.FormatHTML}

// ExportDialog drives an export in two phases: pick format and sections,
// then act on the rendered artifact (copy, download, close).
type ExportDialog struct {
	visible  bool
	width    int
	phase    exportPhase
	selected int
	include  domain.Include
	format   domain.Format
	preview  string
	status   string
	errText  string
}

func NewExportDialog() ExportDialog {
	return ExportDialog{include: domain.IncludeAll()}
}

func (d ExportDialog) Visible() bool { return d.visible }

// Open shows the format picker.
func (d *ExportDialog) Open() {
	d.visible = true
	d.phase = exportPicking
	d.selected = 0
	d.include = domain.IncludeAll()
	d.preview = ""
	d.status = ""
	d.errText = ""
}

// OpenWithFormat skips the picker, used by the palette's fixed-format
// commands. The returned command issues the export immediately.
func (d *ExportDialog) OpenWithFormat(format domain.Format) tea.Cmd {
	d.Open()
	d.phase = exportWaiting
	d.format = format
	include := d.include
	return func() tea.Msg { return ExportRequestMsg{Format: format, Include: include} }
}

func (d *ExportDialog) SetWidth(w int) { d.width = w }

// SetReady moves to the action phase with a content preview.
func (d *ExportDialog) SetReady(preview string) {
	d.phase = exportReady
	d.preview = preview
	d.status = ""
}

func (d *ExportDialog) SetError(msg string) {
	d.phase = exportFailed
	d.errText = msg
}

// SetStatus shows the outcome of a copy or download.
func (d *ExportDialog) SetStatus(msg string) { d.status = msg }

func (d ExportDialog) Update(msg tea.Msg) (ExportDialog, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if key.String() == "esc" {
		d.visible = false
		return d, func() tea.Msg { return ExportCloseMsg{} }
	}

	switch d.phase {
	case exportPicking:
		switch key.String() {
		case "down", "j":
			d.selected = (d.selected + 1) % len(exportFormats)
		case "up", "k":
			d.selected = (d.selected + len(exportFormats) - 1) % len(exportFormats)
		case "t":
			d.include.Transcript = !d.include.Transcript
		case "s":
			d.include.Sources = !d.include.Sources
		case "i":
			d.include.Insights = !d.include.Insights
		case "enter":
			d.phase = exportWaiting
			d.format = exportFormats[d.selected]
			format, include := d.format, d.include
			return d, func() tea.Msg { return ExportRequestMsg{Format: format, Include: include} }
		}
	case exportReady:
		switch key.String() {
		case "c":
			return d, func() tea.Msg { return ExportCopyMsg{} }
		case "d":
			return d, func() tea.Msg { return ExportDownloadMsg{} }
		}
	case exportFailed:
		if key.String() == "enter" {
			d.phase = exportPicking
			d.errText = ""
		}
	}
	return d, nil
}

func (d ExportDialog) View() string {
	if !d.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Export Session") + "\n\n")

	switch d.phase {
	case exportPicking:
		for i, f := range exportFormats {
			label := string(f) + theme.Muted.Render(" ("+f.Extension()+")")
			if i == d.selected {
				sb.WriteString(paletteSelected.Render("› "+label) + "\n")
			} else {
				sb.WriteString("  " + paletteEntry.Render(label) + "\n")
			}
		}
		sb.WriteString("\n")
		sb.WriteString(checkbox("transcript", d.include.Transcript, "t") + "\n")
		sb.WriteString(checkbox("sources", d.include.Sources, "s") + "\n")
		sb.WriteString(checkbox("insights", d.include.Insights, "i") + "\n")
		sb.WriteString("\n" + theme.Muted.Render("enter: export  esc: cancel") + "\n")
	case exportWaiting:
		sb.WriteString(theme.Muted.Render("exporting as "+string(d.format)+"…") + "\n")
	case exportReady:
		sb.WriteString(theme.Good.Render("export ready ("+string(d.format)+")") + "\n\n")
		sb.WriteString(theme.Muted.Render(compact(d.preview, 200)) + "\n")
		if d.status != "" {
			sb.WriteString("\n" + theme.Good.Render(d.status) + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("c: copy  d: download  esc: close") + "\n")
	case exportFailed:
		sb.WriteString(theme.Bad.Render("export failed: "+d.errText) + "\n")
		sb.WriteString("\n" + theme.Muted.Render("enter: back  esc: close") + "\n")
	}

	w := d.width
	if w < 20 {
		w = 60
	}
	return exportStyle.Width(w - 2).Render(sb.String())
}

func checkbox(label string, on bool, hotkey string) string {
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	return "  " + mark + " " + label + " " + theme.Muted.Render("("+hotkey+")")
}
