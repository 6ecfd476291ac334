package compose

import (
	"context"
	"fmt"
	"log"
	"sync"

	"reelforge/types"
)

// AssetResolver is the scene-visual collaborator (assets.Resolver in
// production, a fake in tests).
type AssetResolver interface {
	ResolveAll(ctx context.Context, scenes []types.SceneUnit) ([]types.SceneAsset, error)
}

// JobInput carries everything a composition job needs. The timeline and
// pages are already finalized upstream; only asset resolution still does IO.
type JobInput struct {
	Scenes         []types.SceneUnit
	Timeline       *types.NarrationTimeline
	Pages          []types.CaptionPage
	NarrationAudio string
	ContentType    types.ContentType
}

// Job runs one composition request through the state machine
// pending → resolving_assets → building_plan → ready | failed.
type Job struct {
	ID string

	mu    sync.Mutex
	state types.JobState
	err   error
	plan  *types.CompositionPlan

	// OnTransition, when set, observes every state change (job store sync).
	OnTransition func(types.JobState)
}

// NewJob creates a job in the pending state.
func NewJob(id string) *Job {
	return &Job{ID: id, state: types.JobPending}
}

// State returns the current lifecycle state.
func (j *Job) State() types.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Err returns the originating error after a failed run.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Plan returns the finished plan once the job is ready.
func (j *Job) Plan() *types.CompositionPlan {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.plan
}

func (j *Job) transition(s types.JobState) {
	j.mu.Lock()
	j.state = s
	hook := j.OnTransition
	j.mu.Unlock()
	if hook != nil {
		hook(s)
	}
}

func (j *Job) fail(err error) error {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	j.transition(types.JobFailed)
	return err
}

// Run executes the job. Individual scene fallbacks are tolerated; only
// upstream fatal errors or plan invariant violations fail the job. On
// cancellation, in-flight asset resolutions run to completion (a finished
// download is cache-worthy regardless of the cancelling job) and their
// results are discarded.
func (j *Job) Run(ctx context.Context, in JobInput, resolver AssetResolver) (*types.CompositionPlan, error) {
	if j.State() != types.JobPending {
		return nil, fmt.Errorf("job %s already started (state %s)", j.ID, j.State())
	}

	j.transition(types.JobResolvingAssets)
	log.Printf("[compose] job %s resolving %d scene assets", j.ID, len(in.Scenes))

	assets, err := resolver.ResolveAll(context.WithoutCancel(ctx), in.Scenes)
	if err != nil {
		return nil, j.fail(fmt.Errorf("asset resolution failed: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return nil, j.fail(err)
	}

	j.transition(types.JobBuildingPlan)
	plan, err := Compose(in.Timeline, assets, in.Pages, in.NarrationAudio, in.ContentType)
	if err != nil {
		return nil, j.fail(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, j.fail(err)
	}

	j.mu.Lock()
	j.plan = plan
	j.mu.Unlock()
	j.transition(types.JobReady)
	return plan, nil
}
