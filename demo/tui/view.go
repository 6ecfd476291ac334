package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ReelForge Job Monitor"))
	b.WriteString("\n\n")

	if !m.Connected {
		b.WriteString(ErrorStyle.Render("Not connected to the render API"))
		if m.Err != nil {
			b.WriteString("\n" + InfoStyle.Render(m.Err.Error()))
		}
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
		return b.String()
	}

	if len(m.Jobs) == 0 {
		b.WriteString(InfoStyle.Render("No render jobs yet"))
		b.WriteString("\n\n")
	} else {
		var rows strings.Builder
		for _, job := range m.Jobs {
			rows.WriteString(jobLine(job))
			rows.WriteString("\n")
		}
		b.WriteString(BoxStyle.Render(rows.String()))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%d job(s)", len(m.Jobs))))
		b.WriteString("\n\n")
	}

	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("Recent activity:"))
		b.WriteString("\n")
		for _, entry := range m.Logs {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("   [%s] %s", entry.Timestamp.Format("15:04:05"), entry.Message)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render("Press 'r' to queue a demo render | 'q' or Ctrl+C to quit"))
	return b.String()
}
