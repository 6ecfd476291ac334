package compose

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"reelforge/captions"
	"reelforge/timing"
	"reelforge/types"
)

func fixtureTimeline(t *testing.T, sceneTexts []string, duration float64) *types.NarrationTimeline {
	t.Helper()
	tl, err := timing.Estimate(strings.Join(sceneTexts, " "), sceneTexts, duration, nil)
	if err != nil {
		t.Fatalf("failed to build timeline: %v", err)
	}
	return tl
}

func fixtureAssets(n int) []types.SceneAsset {
	assets := make([]types.SceneAsset, n)
	for i := range assets {
		assets[i] = types.SceneAsset{
			SceneIndex: i + 1,
			ImagePath:  "data/images/test.jpg",
		}
	}
	return assets
}

func TestComposeLaysOutScenesInOrder(t *testing.T) {
	sceneTexts := []string{"one two three", "four five six", "seven eight nine"}
	tl := fixtureTimeline(t, sceneTexts, 30.0)
	pages := captions.Paginate(tl.WordTimings, 3)

	plan, err := Compose(tl, fixtureAssets(3), pages, "data/audio/narration.mp3", types.ContentDailyUpdate)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(plan.VisualLayers) != 3 {
		t.Fatalf("expected 3 visual layers, got %d", len(plan.VisualLayers))
	}
	for i, layer := range plan.VisualLayers {
		if layer.SceneIndex != i+1 {
			t.Fatalf("layer %d has scene index %d", i, layer.SceneIndex)
		}
		if layer.Window != tl.SceneWindows[i] {
			t.Fatalf("layer %d window %+v does not match timeline %+v", i, layer.Window, tl.SceneWindows[i])
		}
	}

	if plan.EndScreen.Start != 30.0 {
		t.Fatalf("end screen starts at %.2f, want 30.0", plan.EndScreen.Start)
	}
	if plan.EndScreen.Duration != 4.0 {
		t.Fatalf("end screen duration %.2f, want 4.0", plan.EndScreen.Duration)
	}
	if plan.OutputDuration != 34.0 {
		t.Fatalf("output duration %.2f, want 34.0", plan.OutputDuration)
	}
}

func TestComposeTransitionsCycleDeterministically(t *testing.T) {
	sceneTexts := []string{"a b", "c d", "e f", "g h", "i j", "k l"}
	tl := fixtureTimeline(t, sceneTexts, 12.0)

	plan, err := Compose(tl, fixtureAssets(6), nil, "audio.mp3", types.ContentDailyUpdate)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// index % 3: 1→zoom, 2→pan, 3→fade, repeating.
	want := []types.Transition{
		types.TransitionZoom, types.TransitionPan, types.TransitionFade,
		types.TransitionZoom, types.TransitionPan, types.TransitionFade,
	}
	for i, layer := range plan.VisualLayers {
		if layer.Transition != want[i] {
			t.Fatalf("scene %d transition %s, want %s", i+1, layer.Transition, want[i])
		}
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	sceneTexts := []string{"one two three", "four five six"}
	tl := fixtureTimeline(t, sceneTexts, 10.0)
	pages := captions.Paginate(tl.WordTimings, 3)
	assets := fixtureAssets(2)

	first, err := Compose(tl, assets, pages, "audio.mp3", types.ContentBookReview)
	if err != nil {
		t.Fatalf("first Compose failed: %v", err)
	}
	second, err := Compose(tl, assets, pages, "audio.mp3", types.ContentBookReview)
	if err != nil {
		t.Fatalf("second Compose failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("composing the same inputs twice must yield identical plans")
	}
}

func TestComposeAcceptsAssetsInAnyOrder(t *testing.T) {
	sceneTexts := []string{"a b", "c d", "e f"}
	tl := fixtureTimeline(t, sceneTexts, 6.0)

	assets := fixtureAssets(3)
	shuffled := []types.SceneAsset{assets[2], assets[0], assets[1]}

	plan, err := Compose(tl, shuffled, nil, "audio.mp3", types.ContentDailyUpdate)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	for i, layer := range plan.VisualLayers {
		if layer.SceneIndex != i+1 {
			t.Fatalf("layer %d has scene index %d after re-sort", i, layer.SceneIndex)
		}
	}
}

func TestComposeSelectsEndScreenByContentType(t *testing.T) {
	sceneTexts := []string{"a b"}
	tl := fixtureTimeline(t, sceneTexts, 5.0)

	book, err := Compose(tl, fixtureAssets(1), nil, "audio.mp3", types.ContentBookReview)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	generic, err := Compose(tl, fixtureAssets(1), nil, "audio.mp3", types.ContentBigTech)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if book.EndScreen.ImagePath == generic.EndScreen.ImagePath {
		t.Fatal("book review and generic content should use different end screens")
	}
}

func TestComposeRejectsInvariantViolations(t *testing.T) {
	sceneTexts := []string{"a b", "c d"}
	tl := fixtureTimeline(t, sceneTexts, 8.0)

	t.Run("asset count mismatch", func(t *testing.T) {
		_, err := Compose(tl, fixtureAssets(1), nil, "audio.mp3", types.ContentDailyUpdate)
		assertBuildError(t, err)
	})

	t.Run("non-contiguous windows", func(t *testing.T) {
		broken := &types.NarrationTimeline{
			TotalDuration: tl.TotalDuration,
			WordTimings:   tl.WordTimings,
			SceneWindows: []types.TimeWindow{
				{Start: 0, End: 3},
				{Start: 4, End: 8}, // 1s gap
			},
		}
		_, err := Compose(broken, fixtureAssets(2), nil, "audio.mp3", types.ContentDailyUpdate)
		assertBuildError(t, err)
	})

	t.Run("missing audio reference", func(t *testing.T) {
		_, err := Compose(tl, fixtureAssets(2), nil, "", types.ContentDailyUpdate)
		assertBuildError(t, err)
	})

	t.Run("duplicate scene index", func(t *testing.T) {
		assets := fixtureAssets(2)
		assets[1].SceneIndex = 1
		_, err := Compose(tl, assets, nil, "audio.mp3", types.ContentDailyUpdate)
		assertBuildError(t, err)
	})
}

func assertBuildError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var buildErr *CompositionBuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected CompositionBuildError, got %T: %v", err, err)
	}
}

// fakeResolver implements AssetResolver for job tests.
type fakeResolver struct {
	assets []types.SceneAsset
	err    error
	calls  int
}

func (f *fakeResolver) ResolveAll(ctx context.Context, scenes []types.SceneUnit) ([]types.SceneAsset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.assets, nil
}

func jobInput(t *testing.T) JobInput {
	sceneTexts := []string{"one two three", "four five six"}
	tl := fixtureTimeline(t, sceneTexts, 10.0)
	return JobInput{
		Scenes: []types.SceneUnit{
			{Index: 1, Text: sceneTexts[0], ImageKeywords: []string{"alpha"}},
			{Index: 2, Text: sceneTexts[1], ImageKeywords: []string{"beta"}},
		},
		Timeline:       tl,
		Pages:          captions.Paginate(tl.WordTimings, 3),
		NarrationAudio: "audio.mp3",
		ContentType:    types.ContentDailyUpdate,
	}
}

func TestJobRunReachesReady(t *testing.T) {
	job := NewJob("job-1")
	var seen []types.JobState
	job.OnTransition = func(s types.JobState) { seen = append(seen, s) }

	plan, err := job.Run(context.Background(), jobInput(t), &fakeResolver{assets: fixtureAssets(2)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if plan == nil || job.Plan() != plan {
		t.Fatal("job must retain the finished plan")
	}
	if job.State() != types.JobReady {
		t.Fatalf("state = %s, want ready", job.State())
	}

	want := []types.JobState{types.JobResolvingAssets, types.JobBuildingPlan, types.JobReady}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("transitions = %v, want %v", seen, want)
	}
}

func TestJobRunFailsOnResolverError(t *testing.T) {
	job := NewJob("job-2")

	_, err := job.Run(context.Background(), jobInput(t), &fakeResolver{err: errors.New("boom")})
	if err == nil {
		t.Fatal("expected error")
	}
	if job.State() != types.JobFailed {
		t.Fatalf("state = %s, want failed", job.State())
	}
	if job.Plan() != nil {
		t.Fatal("failed job must not expose a partial plan")
	}
}

func TestJobRunDiscardsResultsOnCancellation(t *testing.T) {
	job := NewJob("job-3")
	resolver := &fakeResolver{assets: fixtureAssets(2)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := job.Run(ctx, jobInput(t), resolver)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	// Resolution still ran to completion; the download stays cache-worthy.
	if resolver.calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", resolver.calls)
	}
	if job.State() != types.JobFailed {
		t.Fatalf("state = %s, want failed", job.State())
	}
}

func TestJobCannotRunTwice(t *testing.T) {
	job := NewJob("job-4")
	if _, err := job.Run(context.Background(), jobInput(t), &fakeResolver{assets: fixtureAssets(2)}); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if _, err := job.Run(context.Background(), jobInput(t), &fakeResolver{assets: fixtureAssets(2)}); err == nil {
		t.Fatal("expected error on second Run")
	}
}
