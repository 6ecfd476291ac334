package types

// WordTiming maps one spoken word to its start/end timestamps in the audio track.
type WordTiming struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TimeWindow is a half-open slice of the narration timeline, start <= end.
type TimeWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the window length in seconds.
func (w TimeWindow) Duration() float64 { return w.End - w.Start }

// NarrationTimeline is the resolved, audio-synchronized form of a Script.
// SceneWindows are contiguous, non-overlapping, one per scene, and their union
// spans [0, TotalDuration]. Immutable once built.
type NarrationTimeline struct {
	TotalDuration float64      `json:"total_duration_seconds"`
	SceneWindows  []TimeWindow `json:"scene_windows"`
	WordTimings   []WordTiming `json:"word_timings"`
}

// SceneAsset is the resolved visual for one scene.
type SceneAsset struct {
	SceneIndex   int      `json:"scene_index"`
	ImagePath    string   `json:"image_path"`
	KeywordsUsed []string `json:"source_keywords_used"`
	IsFallback   bool     `json:"is_fallback"`
}

// CaptionPage is one on-screen caption unit of 2-4 words.
type CaptionPage struct {
	Words []string `json:"words"`
	Start float64  `json:"start"`
	End   float64  `json:"end"`
}

// Transition is the visual effect applied at a scene boundary.
type Transition string

const (
	TransitionFade Transition = "fade"
	TransitionZoom Transition = "zoom"
	TransitionPan  Transition = "pan"
)

// VisualLayer is one scene image placed on the timeline with its transition.
type VisualLayer struct {
	SceneIndex int        `json:"scene_index"`
	ImagePath  string     `json:"image_path"`
	Window     TimeWindow `json:"window"`
	Transition Transition `json:"transition"`
	IsFallback bool       `json:"is_fallback"`
}

// CaptionOverlay is one caption page placed on the overlay layer.
type CaptionOverlay struct {
	Text   string     `json:"text"`
	Window TimeWindow `json:"window"`
}

// EndScreenLayer is the fixed-duration branded closing block.
type EndScreenLayer struct {
	ImagePath string  `json:"image_path"`
	Start     float64 `json:"start"`
	Duration  float64 `json:"duration"`
}

// CompositionPlan is the finalized instruction set handed to the renderer.
// It is never mutated; a failed render discards the plan and a fresh one is
// built on retry.
type CompositionPlan struct {
	VisualLayers    []VisualLayer    `json:"visual_layers"`
	CaptionOverlays []CaptionOverlay `json:"caption_overlays"`
	NarrationAudio  string           `json:"narration_audio_reference"`
	EndScreen       EndScreenLayer   `json:"end_screen_layer"`
	OutputDuration  float64          `json:"output_duration_seconds"`
}

// JobState is the render job lifecycle state.
type JobState string

const (
	JobPending         JobState = "pending"
	JobResolvingAssets JobState = "resolving_assets"
	JobBuildingPlan    JobState = "building_plan"
	JobReady           JobState = "ready"
	JobFailed          JobState = "failed"
)

// RenderJob tracks one render request through the pipeline.
type RenderJob struct {
	ID         string   `json:"id"`
	ScriptID   string   `json:"script_id,omitempty"`
	State      JobState `json:"state"`
	Error      string   `json:"error,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
	VideoID    string   `json:"video_id,omitempty"`
}
