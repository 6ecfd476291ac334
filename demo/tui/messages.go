package tui

import (
	"time"

	"reelforge/types"
)

// Messages for the tea program (polling-based)

// JobsUpdateMsg is sent when a jobs poll completes.
type JobsUpdateMsg struct {
	Jobs []*types.RenderJob
	Err  error
}

// TickMsg triggers the next poll.
type TickMsg struct {
	Time time.Time
}

// SubmittedMsg is sent when a demo script has been queued.
type SubmittedMsg struct {
	JobID string
	Err   error
}
