package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"reelforge/captions"
	"reelforge/compose"
	"reelforge/config"
	"reelforge/script"
	"reelforge/state"
	"reelforge/timing"
	"reelforge/tts"
	"reelforge/types"
	"reelforge/upload"
)

// RenderRequest is the message the API publishes and the worker consumes.
// The job ID is assigned at submission so the caller can poll immediately.
type RenderRequest struct {
	JobID  string        `json:"job_id"`
	Script *types.Script `json:"script"`
}

// VideoRenderer turns a finished plan into a video file.
type VideoRenderer interface {
	Render(jobID string, plan *types.CompositionPlan) (string, error)
}

// VideoUploader publishes a rendered video and returns its platform ID.
type VideoUploader interface {
	UploadVideo(videoPath string, metadata upload.Metadata) (string, error)
}

// VideoStorage archives rendered artifacts. Implemented by common.S3.
type VideoStorage interface {
	UploadVideo(ctx context.Context, jobID, videoPath string) (string, error)
}

// coverPinner is the optional resolver capability for fetching a known image
// URL instead of searching. Book review covers use it for scene 1.
type coverPinner interface {
	ResolvePinned(ctx context.Context, sceneIndex int, url, label string) (*types.SceneAsset, error)
}

// Pipeline runs a script end to end: narration, timing, assets, plan, render
// and the optional publish steps.
type Pipeline struct {
	Synthesizer tts.Synthesizer
	Resolver    compose.AssetResolver
	Renderer    VideoRenderer
	Store       state.Store
	Variant     script.Variant

	// Storage and Uploader are optional; nil skips the step.
	Storage  VideoStorage
	Uploader VideoUploader
}

// Result is the pipeline outcome for one script.
type Result struct {
	Job       *types.RenderJob
	Plan      *types.CompositionPlan
	VideoPath string
}

// Run processes one script under a fresh job ID.
func (p *Pipeline) Run(ctx context.Context, s *types.Script) (*Result, error) {
	return p.RunJob(ctx, uuid.NewString(), s)
}

// RunJob processes one script and returns the finished job record. The job
// ID is caller-supplied so API submissions and worker runs share one record.
// The job is persisted on every state change so status queries see progress
// live.
func (p *Pipeline) RunJob(ctx context.Context, jobID string, s *types.Script) (*Result, error) {
	if err := script.Validate(s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	record := &types.RenderJob{ID: jobID, ScriptID: s.ID, State: types.JobPending}
	if err := p.Store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	result, err := p.run(ctx, s, jobID, record)
	if err != nil {
		record.State = types.JobFailed
		record.Error = err.Error()
		if saveErr := p.Store.Save(context.WithoutCancel(ctx), record); saveErr != nil {
			log.Printf("[pipeline] job %s: failed to persist failure: %v", jobID, saveErr)
		}
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, s *types.Script, jobID string, record *types.RenderJob) (*Result, error) {
	narration, err := script.Normalize(s, p.Variant)
	if err != nil {
		return nil, err
	}
	sceneTexts, err := script.SceneTextIndex(s)
	if err != nil {
		return nil, err
	}

	log.Printf("[pipeline] job %s: synthesizing %d-word narration", jobID, script.CountWords(narration))
	synthesis, err := p.Synthesizer.Synthesize(ctx, narration)
	if err != nil {
		return nil, fmt.Errorf("narration synthesis failed: %w", err)
	}
	duration := synthesis.Duration
	if duration <= 0 {
		duration = tts.EstimateDuration(script.CountWords(narration))
		log.Printf("[pipeline] job %s: provider reported no duration, estimating %.1fs", jobID, duration)
	}

	timeline, err := timing.Estimate(narration, sceneTexts, duration, synthesis.Alignment)
	if err != nil {
		return nil, fmt.Errorf("timing estimation failed: %w", err)
	}
	pages := captions.Paginate(timeline.WordTimings, config.CaptionPageSize)

	job := compose.NewJob(jobID)
	job.OnTransition = func(st types.JobState) {
		record.State = st
		if err := p.Store.Save(context.WithoutCancel(ctx), record); err != nil {
			log.Printf("[pipeline] job %s: failed to persist state %s: %v", jobID, st, err)
		}
	}

	plan, err := job.Run(ctx, compose.JobInput{
		Scenes:         s.Scenes,
		Timeline:       timeline,
		Pages:          pages,
		NarrationAudio: synthesis.AudioPath,
		ContentType:    s.ContentType,
	}, p.resolverFor(s))
	if err != nil {
		return nil, err
	}

	videoPath, err := p.Renderer.Render(jobID, plan)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	record.OutputPath = videoPath

	if p.Storage != nil {
		if key, err := p.Storage.UploadVideo(ctx, jobID, videoPath); err != nil {
			log.Printf("[pipeline] job %s: archive upload failed: %v", jobID, err)
		} else {
			log.Printf("[pipeline] job %s: archived to %s", jobID, key)
		}
	}

	if p.Uploader != nil {
		videoID, err := p.Uploader.UploadVideo(videoPath, upload.GenerateMetadata(s))
		if err != nil {
			return nil, fmt.Errorf("publish failed: %w", err)
		}
		record.VideoID = videoID
	}

	record.State = types.JobReady
	if err := p.Store.Save(ctx, record); err != nil {
		log.Printf("[pipeline] job %s: failed to persist final state: %v", jobID, err)
	}
	log.Printf("[pipeline] job %s: complete (%s)", jobID, videoPath)
	return &Result{Job: record, Plan: plan, VideoPath: videoPath}, nil
}

// resolverFor wraps the asset resolver with cover pinning when the script is
// a book review carrying a cover URL: scene 1 always shows the cover.
func (p *Pipeline) resolverFor(s *types.Script) compose.AssetResolver {
	pinner, ok := p.Resolver.(coverPinner)
	if !ok || s.ContentType != types.ContentBookReview || s.CoverURL == "" {
		return p.Resolver
	}
	return &pinnedCoverResolver{inner: p.Resolver, pinner: pinner, coverURL: s.CoverURL}
}

type pinnedCoverResolver struct {
	inner    compose.AssetResolver
	pinner   coverPinner
	coverURL string
}

func (r *pinnedCoverResolver) ResolveAll(ctx context.Context, scenes []types.SceneUnit) ([]types.SceneAsset, error) {
	if len(scenes) == 0 {
		return r.inner.ResolveAll(ctx, scenes)
	}

	cover, err := r.pinner.ResolvePinned(ctx, scenes[0].Index, r.coverURL, "book cover")
	if err != nil {
		// Cover fetch is best-effort; fall through to the normal search path.
		log.Printf("[pipeline] cover pin failed, using search: %v", err)
		return r.inner.ResolveAll(ctx, scenes)
	}

	rest, err := r.inner.ResolveAll(ctx, scenes[1:])
	if err != nil {
		return nil, err
	}
	return append([]types.SceneAsset{*cover}, rest...), nil
}
