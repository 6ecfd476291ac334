package compose

import (
	"fmt"
	"log"
	"math"
	"sort"

	"reelforge/captions"
	"reelforge/config"
	"reelforge/endscreen"
	"reelforge/types"
)

// CompositionBuildError reports an invariant violation while assembling the
// plan. Fatal for the job; no partial plan is ever returned.
type CompositionBuildError struct {
	Reason string
}

func (e *CompositionBuildError) Error() string {
	return "composition build failed: " + e.Reason
}

// transitionFor selects the boundary effect for a scene. The selection is
// keyed by index, not random, so re-renders of the same script are visually
// stable and composing twice yields identical plans.
func transitionFor(sceneIndex int) types.Transition {
	switch sceneIndex % 3 {
	case 0:
		return types.TransitionFade
	case 1:
		return types.TransitionZoom
	default:
		return types.TransitionPan
	}
}

// Compose merges the narration timeline, resolved scene assets and caption
// pages into one CompositionPlan: visual layers in scene order, a caption
// overlay layer spanning the narration, and the end screen appended at the
// total duration. The plan is deterministic for identical inputs.
func Compose(
	timeline *types.NarrationTimeline,
	assets []types.SceneAsset,
	pages []types.CaptionPage,
	narrationAudio string,
	contentType types.ContentType,
) (*types.CompositionPlan, error) {
	if timeline == nil || len(timeline.SceneWindows) == 0 {
		return nil, &CompositionBuildError{Reason: "timeline has no scene windows"}
	}
	if len(assets) != len(timeline.SceneWindows) {
		return nil, &CompositionBuildError{
			Reason: fmt.Sprintf("%d assets for %d scene windows", len(assets), len(timeline.SceneWindows)),
		}
	}
	if narrationAudio == "" {
		return nil, &CompositionBuildError{Reason: "missing narration audio reference"}
	}

	// Assets may arrive in completion order; lay out by scene index.
	sorted := make([]types.SceneAsset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SceneIndex < sorted[j].SceneIndex })

	prevEnd := 0.0
	visuals := make([]types.VisualLayer, len(sorted))
	for i, asset := range sorted {
		if asset.SceneIndex != i+1 {
			return nil, &CompositionBuildError{
				Reason: fmt.Sprintf("asset scene indexes not contiguous at position %d (index %d)", i, asset.SceneIndex),
			}
		}
		window := timeline.SceneWindows[i]
		if window.End < window.Start {
			return nil, &CompositionBuildError{Reason: fmt.Sprintf("scene %d window inverted", i+1)}
		}
		if math.Abs(window.Start-prevEnd) > config.TimingTolerance {
			return nil, &CompositionBuildError{Reason: fmt.Sprintf("scene %d window not contiguous", i+1)}
		}
		prevEnd = window.End

		visuals[i] = types.VisualLayer{
			SceneIndex: asset.SceneIndex,
			ImagePath:  asset.ImagePath,
			Window:     window,
			Transition: transitionFor(asset.SceneIndex),
			IsFallback: asset.IsFallback,
		}
	}
	if math.Abs(prevEnd-timeline.TotalDuration) > config.TimingTolerance {
		return nil, &CompositionBuildError{
			Reason: fmt.Sprintf("scene windows end at %.4fs of %.4fs", prevEnd, timeline.TotalDuration),
		}
	}

	overlays := make([]types.CaptionOverlay, len(pages))
	for i, page := range pages {
		overlays[i] = types.CaptionOverlay{
			Text:   captions.PageText(page),
			Window: types.TimeWindow{Start: page.Start, End: page.End},
		}
	}

	endLayer, err := endscreen.Layer(contentType, timeline.TotalDuration)
	if err != nil {
		return nil, &CompositionBuildError{Reason: err.Error()}
	}

	plan := &types.CompositionPlan{
		VisualLayers:    visuals,
		CaptionOverlays: overlays,
		NarrationAudio:  narrationAudio,
		EndScreen:       endLayer,
		OutputDuration:  timeline.TotalDuration + endLayer.Duration,
	}

	fallbacks := 0
	for _, v := range plan.VisualLayers {
		if v.IsFallback {
			fallbacks++
		}
	}
	log.Printf("[compose] plan built: %d scenes, %d caption overlays, %.1fs output (%d fallback visuals)",
		len(plan.VisualLayers), len(plan.CaptionOverlays), plan.OutputDuration, fallbacks)
	return plan, nil
}
