package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "R":
			m.addLog("Submitting demo script...")
			return m, submitDemoScript(m.Client)
		}

	case TickMsg:
		return m, tea.Batch(pollJobs(m.Client), tickCmd())

	case JobsUpdateMsg:
		if msg.Err != nil {
			m.Connected = false
			m.Err = msg.Err
			return m, nil
		}
		m.Connected = true
		m.Err = nil
		m.Jobs = msg.Jobs
		return m, nil

	case SubmittedMsg:
		if msg.Err != nil {
			m.addLog(fmt.Sprintf("Submit failed: %v", msg.Err))
			return m, nil
		}
		m.LastJobID = msg.JobID
		m.addLog(fmt.Sprintf("Queued job %s", msg.JobID))
		return m, pollJobs(m.Client)
	}

	return m, nil
}
