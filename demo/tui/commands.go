package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"reelforge/types"
)

// pollJobs creates a command to fetch the job list.
func pollJobs(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		jobs, err := client.ListJobs()
		return JobsUpdateMsg{Jobs: jobs, Err: err}
	}
}

// submitDemoScript queues the canned demo script.
func submitDemoScript(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		jobID, err := client.SubmitScript(demoScript())
		return SubmittedMsg{JobID: jobID, Err: err}
	}
}

// tickCmd ticks every 500ms for polling.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// demoScript is a small fixed script so the demo runs without a generation
// provider configured.
func demoScript() *types.Script {
	s := &types.Script{
		Hook:         "AI labs just rewrote the rules.",
		CallToAction: "Follow for daily AI news.",
		ContentType:  types.ContentDailyUpdate,
		Scenes: []types.SceneUnit{
			{Index: 1, Text: "AI labs just rewrote the rules of model training.", ImageKeywords: []string{"ai research lab", "neural network"}},
			{Index: 2, Text: "A new technique cuts compute costs by half while matching benchmark scores.", ImageKeywords: []string{"gpu datacenter", "benchmark chart"}},
			{Index: 3, Text: "Every major lab is expected to adopt it this year, so follow for daily AI news.", ImageKeywords: []string{"technology news", "ai future"}},
		},
	}
	for _, sc := range s.Scenes {
		s.WordCount += sc.WordCount()
	}
	return s
}
