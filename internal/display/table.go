package display

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joshuadavidthomas/vibequota/internal/models"
)

// TableOptions configures table rendering.
type TableOptions struct {
	Title   string
	NoColor bool
}

// NewTable creates a styled table with headers and rows using lipgloss/table.
func NewTable(headers []string, rows [][]string, opts TableOptions) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if opts.NoColor {
		headerStyle = lipgloss.NewStyle().Padding(0, 1)
		borderStyle = lipgloss.NewStyle()
	}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range rows {
		t.Row(row...)
	}

	rendered := t.String()

	if opts.Title != "" {
		title := lipgloss.NewStyle().Bold(true).Render(opts.Title)
		if opts.NoColor {
			title = opts.Title
		}
		return title + "\n" + rendered
	}

	return rendered
}

// RenderSnapshot renders one provider's usage snapshot as a titled table.
// The title carries the provider name plus source and account annotations.
func RenderSnapshot(displayName string, snap models.UsageSnapshot, source string, cached bool, noColor bool) string {
	title := displayName
	if snap.Identity != nil && snap.Identity.Email != "" {
		title += " · " + snap.Identity.Email
	}
	if snap.Identity != nil && snap.Identity.Plan != "" {
		title += " (" + snap.Identity.Plan + ")"
	}
	if cached {
		title += " [cached]"
	} else if source != "" {
		title += " [" + source + "]"
	}

	rows := make([][]string, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		rows = append(rows, []string{
			w.Label,
			strconv.Itoa(w.UsedPercent) + "%",
			models.FormatResetCountdown(w.TimeUntilReset()),
		})
	}

	return NewTable(
		[]string{"Window", "Used", "Resets"},
		rows,
		TableOptions{Title: title, NoColor: noColor},
	)
}

// RenderProviderError formats a per-provider fetch failure for the console.
func RenderProviderError(displayName, message string, noColor bool) string {
	line := displayName + ": " + message
	if noColor {
		return line
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(line)
}
