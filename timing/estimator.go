package timing

import (
	"fmt"
	"math"
	"strings"

	"reelforge/config"
	"reelforge/types"
)

// InvalidTimingInputError reports unusable timing inputs: a non-positive
// audio duration or an empty narration. Fatal for the render, not retried.
type InvalidTimingInputError struct {
	Reason string
}

func (e *InvalidTimingInputError) Error() string {
	return "invalid timing input: " + e.Reason
}

// Estimate builds a NarrationTimeline for the narration.
//
// When the TTS provider supplies word-level alignment, the triples are
// trusted directly and scene windows are derived from the first/last word of
// each scene, splitting inter-scene gaps at the midpoint. Without alignment,
// every word gets a uniform duration derived from the overall speaking rate;
// this is the reliable floor when the provider gives no timing metadata.
func Estimate(narration string, sceneTexts []string, audioDuration float64, alignment []types.WordTiming) (*types.NarrationTimeline, error) {
	if audioDuration <= 0 {
		return nil, &InvalidTimingInputError{Reason: fmt.Sprintf("audio duration %.3fs", audioDuration)}
	}

	words := strings.Fields(narration)
	if len(words) == 0 {
		return nil, &InvalidTimingInputError{Reason: "empty narration"}
	}
	if len(sceneTexts) == 0 {
		return nil, &InvalidTimingInputError{Reason: "no scenes"}
	}

	sceneWordCounts := make([]int, len(sceneTexts))
	total := 0
	for i, text := range sceneTexts {
		n := len(strings.Fields(text))
		if n == 0 {
			return nil, &InvalidTimingInputError{Reason: fmt.Sprintf("scene %d has no words", i+1)}
		}
		sceneWordCounts[i] = n
		total += n
	}
	if total != len(words) {
		return nil, &InvalidTimingInputError{
			Reason: fmt.Sprintf("narration has %d words but scenes account for %d", len(words), total),
		}
	}

	if len(alignment) > 0 {
		return fromAlignment(alignment, sceneWordCounts, audioDuration)
	}
	return fromRate(words, sceneWordCounts, audioDuration)
}

// fromAlignment trusts provider word timings and derives scene windows from
// the per-scene word ranges.
func fromAlignment(alignment []types.WordTiming, sceneWordCounts []int, audioDuration float64) (*types.NarrationTimeline, error) {
	windows := make([]types.TimeWindow, len(sceneWordCounts))

	idx := 0
	for i, count := range sceneWordCounts {
		if idx+count > len(alignment) {
			return nil, &InvalidTimingInputError{
				Reason: fmt.Sprintf("alignment has %d words, need %d", len(alignment), idx+count),
			}
		}
		windows[i] = types.TimeWindow{
			Start: alignment[idx].Start,
			End:   alignment[idx+count-1].End,
		}
		idx += count
	}

	// Scene boundaries: split any silence between adjacent scenes at the
	// midpoint so the windows stay contiguous.
	windows[0].Start = 0
	for i := 1; i < len(windows); i++ {
		gap := windows[i].Start - windows[i-1].End
		if gap > 0 {
			mid := windows[i-1].End + gap/2
			windows[i-1].End = mid
			windows[i].Start = mid
		} else {
			windows[i].Start = windows[i-1].End
		}
	}
	windows[len(windows)-1].End = audioDuration

	tl := &types.NarrationTimeline{
		TotalDuration: audioDuration,
		SceneWindows:  windows,
		WordTimings:   alignment,
	}
	return tl, checkCoverage(tl)
}

// fromRate assigns each word a uniform duration from the overall words-per-
// minute rate and places scene boundaries at the cumulative checkpoints after
// each scene's last word.
func fromRate(words []string, sceneWordCounts []int, audioDuration float64) (*types.NarrationTimeline, error) {
	perWord := audioDuration / float64(len(words))

	timings := make([]types.WordTiming, len(words))
	offset := 0.0
	for i, w := range words {
		timings[i] = types.WordTiming{Word: w, Start: offset, End: offset + perWord}
		offset += perWord
	}
	// Floating point accumulation drifts; pin the last word to the track end.
	timings[len(timings)-1].End = audioDuration

	windows := make([]types.TimeWindow, len(sceneWordCounts))
	start := 0.0
	idx := 0
	for i, count := range sceneWordCounts {
		idx += count
		end := float64(idx) * perWord
		windows[i] = types.TimeWindow{Start: start, End: end}
		start = end
	}
	// Residual goes to the final scene.
	windows[len(windows)-1].End = audioDuration

	tl := &types.NarrationTimeline{
		TotalDuration: audioDuration,
		SceneWindows:  windows,
		WordTimings:   timings,
	}
	return tl, checkCoverage(tl)
}

// checkCoverage verifies the scene windows exactly tile [0, TotalDuration].
func checkCoverage(tl *types.NarrationTimeline) error {
	sum := 0.0
	prev := 0.0
	for i, w := range tl.SceneWindows {
		if w.End < w.Start {
			return &InvalidTimingInputError{Reason: fmt.Sprintf("scene %d window inverted", i+1)}
		}
		if math.Abs(w.Start-prev) > config.TimingTolerance {
			return &InvalidTimingInputError{Reason: fmt.Sprintf("gap before scene %d window", i+1)}
		}
		sum += w.Duration()
		prev = w.End
	}
	if math.Abs(sum-tl.TotalDuration) > config.TimingTolerance {
		return &InvalidTimingInputError{
			Reason: fmt.Sprintf("scene windows cover %.4fs of %.4fs", sum, tl.TotalDuration),
		}
	}
	return nil
}

// SceneForTime returns the index (0-based) of the scene window containing t.
// A timestamp landing exactly on a boundary resolves to the earlier window.
func SceneForTime(tl *types.NarrationTimeline, t float64) int {
	for i, w := range tl.SceneWindows {
		if t <= w.End || i == len(tl.SceneWindows)-1 {
			return i
		}
	}
	return len(tl.SceneWindows) - 1
}
