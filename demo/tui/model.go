package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"reelforge/types"
)

// LogEntry is one timestamped activity line.
type LogEntry struct {
	Timestamp time.Time
	Message   string
}

// Model is the thin TUI client state, synced by polling the render API.
type Model struct {
	Client *APIClient

	Jobs      []*types.RenderJob
	Logs      []LogEntry
	LastJobID string
	Err       error

	Connected bool
}

// NewModel creates a new TUI model pointed at the API.
func NewModel(apiURL string) Model {
	return Model{
		Client: NewAPIClient(apiURL),
		Logs:   make([]LogEntry, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollJobs(m.Client),
		tickCmd(),
	)
}

func (m *Model) addLog(message string) {
	m.Logs = append(m.Logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.Logs) > 10 {
		m.Logs = m.Logs[len(m.Logs)-10:]
	}
}

// stateLabel renders one job state with its glyph.
func stateLabel(s types.JobState) string {
	switch s {
	case types.JobPending:
		return InfoStyle.Render("pending")
	case types.JobResolvingAssets:
		return StatusStyle.Render("resolving assets")
	case types.JobBuildingPlan:
		return StatusStyle.Render("building plan")
	case types.JobReady:
		return HighlightStyle.Render("READY")
	case types.JobFailed:
		return ErrorStyle.Render("FAILED")
	default:
		return string(s)
	}
}

// jobLine formats one job row for the list.
func jobLine(job *types.RenderJob) string {
	id := job.ID
	if len(id) > 8 {
		id = id[:8]
	}
	line := fmt.Sprintf("%s  %s", id, stateLabel(job.State))
	if job.OutputPath != "" {
		line += InfoStyle.Render("  " + job.OutputPath)
	}
	if job.VideoID != "" {
		line += InfoStyle.Render("  youtube.com/shorts/" + job.VideoID)
	}
	if job.Error != "" {
		line += ErrorStyle.Render("  " + truncate(job.Error, 60))
	}
	return line
}
