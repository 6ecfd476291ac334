package render

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelforge/config"
	"reelforge/types"
)

// Renderer turns a composition plan into an mp4 on disk using ffmpeg.
type Renderer struct {
	outputDir string
	tmpDir    string
}

// NewRenderer creates a renderer writing finished videos to outputDir.
func NewRenderer(outputDir string) (*Renderer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Renderer{outputDir: outputDir, tmpDir: os.TempDir()}, nil
}

// Render executes the plan and returns the path of the finished video.
// The plan is trusted: layer windows are contiguous and the end screen sits
// at the narration's end, so rendering is pure assembly.
func (r *Renderer) Render(jobID string, plan *types.CompositionPlan) (string, error) {
	if plan == nil || len(plan.VisualLayers) == 0 {
		return "", fmt.Errorf("empty composition plan")
	}

	srtPath := filepath.Join(r.tmpDir, fmt.Sprintf("%s_captions.srt", jobID))
	if err := writeSRT(plan.CaptionOverlays, srtPath); err != nil {
		return "", fmt.Errorf("failed to generate captions: %w", err)
	}
	defer os.Remove(srtPath)

	outputPath := filepath.Join(r.outputDir, fmt.Sprintf("%s.mp4", jobID))

	streams := make([]*ffmpeg.Stream, 0, len(plan.VisualLayers)+1)
	for _, layer := range plan.VisualLayers {
		streams = append(streams, sceneStream(layer))
	}
	streams = append(streams, endScreenStream(plan.EndScreen))

	video := ffmpeg.Concat(streams).
		Filter("subtitles", ffmpeg.Args{}, ffmpeg.KwArgs{
			"filename":    filepath.ToSlash(srtPath),
			"force_style": captionStyle,
		})
	audio := ffmpeg.Input(plan.NarrationAudio).Audio()

	err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outputPath, ffmpeg.KwArgs{
		"t":      fmt.Sprintf("%.2f", plan.OutputDuration),
		"c:v":    config.VideoCodec,
		"c:a":    config.AudioCodec,
		"b:a":    config.AudioBitrate,
		"preset": config.VideoPreset,
		"r":      config.VideoFPS,
		"s":      fmt.Sprintf("%dx%d", config.VideoWidth, config.VideoHeight),
		"aspect": "9:16",
	}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("ffmpeg failed: %w", err)
	}

	log.Printf("[render] job %s rendered %.1fs video to %s", jobID, plan.OutputDuration, outputPath)
	return outputPath, nil
}

const captionStyle = "FontName=Impact,FontSize=32,PrimaryColour=&H00FFFF," +
	"OutlineColour=&H000000,BorderStyle=3,Outline=3,Shadow=0,Alignment=2,Bold=1"

// sceneStream builds one still-image clip covering the layer's window, with
// the layer's boundary effect applied.
func sceneStream(layer types.VisualLayer) *ffmpeg.Stream {
	dur := layer.Window.Duration()
	frames := int(dur * config.VideoFPS)

	s := ffmpeg.Input(layer.ImagePath, ffmpeg.KwArgs{
		"loop":      1,
		"framerate": config.VideoFPS,
		"t":         fmt.Sprintf("%.3f", dur),
	}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=increase", config.VideoWidth, config.VideoHeight)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d", config.VideoWidth, config.VideoHeight)}).
		Filter("setsar", ffmpeg.Args{"1"})

	switch layer.Transition {
	case types.TransitionZoom:
		s = s.Filter("zoompan", ffmpeg.Args{}, ffmpeg.KwArgs{
			"z": "min(zoom+0.0008,1.15)",
			"d": frames,
			"x": "iw/2-(iw/zoom/2)",
			"y": "ih/2-(ih/zoom/2)",
			"s": fmt.Sprintf("%dx%d", config.VideoWidth, config.VideoHeight),
		})
	case types.TransitionPan:
		s = s.Filter("zoompan", ffmpeg.Args{}, ffmpeg.KwArgs{
			"z": "1.1",
			"d": frames,
			"x": "(iw-iw/zoom)*on/" + fmt.Sprintf("%d", max(frames, 1)),
			"y": "ih/2-(ih/zoom/2)",
			"s": fmt.Sprintf("%dx%d", config.VideoWidth, config.VideoHeight),
		})
	default: // fade
		s = s.Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"t":  "in",
			"st": 0,
			"d":  fmt.Sprintf("%.2f", config.SceneTransitionDuration),
		})
	}
	return s
}

// endScreenStream builds the branded closing card clip.
func endScreenStream(end types.EndScreenLayer) *ffmpeg.Stream {
	return ffmpeg.Input(end.ImagePath, ffmpeg.KwArgs{
		"loop":      1,
		"framerate": config.VideoFPS,
		"t":         fmt.Sprintf("%.3f", end.Duration),
	}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=increase", config.VideoWidth, config.VideoHeight)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d", config.VideoWidth, config.VideoHeight)}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{
			"t":  "in",
			"st": 0,
			"d":  fmt.Sprintf("%.2f", config.SceneTransitionDuration),
		})
}
