package config

import "time"

// Composition Constants
const (
	// EndScreenDuration is the fixed length of the branded closing block in seconds
	EndScreenDuration = 4.0

	// CaptionPageSize is the default number of words per caption page
	CaptionPageSize = 3

	// TimingTolerance is the allowed drift between scene windows and audio duration
	TimingTolerance = 0.001

	// SceneTransitionDuration is the length of the boundary effect in seconds
	SceneTransitionDuration = 0.5
)

// Asset Resolution Constants
const (
	// MaxConcurrentResolutions limits scene image lookups running at once
	MaxConcurrentResolutions = 4

	// SearchRetries is the number of retries after a failed image search call
	SearchRetries = 2

	// SearchRetryBackoff is the base wait between image search retries
	SearchRetryBackoff = 2 * time.Second

	// CacheLockStripes sizes the per-key mutex table of the image cache
	CacheLockStripes = 32
)

// Video Output Constants
const (
	// VideoWidth is the output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// VideoFPS is the output frame rate
	VideoFPS = 30

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Pacing Constants
const (
	// FallbackWordsPerSecond estimates narration duration when the TTS
	// provider reports none (average speaking rate)
	FallbackWordsPerSecond = 2.5
)

// Title and Metadata Constants
const (
	// MaxTitleLength is the maximum character length for video titles
	MaxTitleLength = 100
)

// Directory Constants
const (
	// ImageCacheDir is the shared on-disk image cache
	ImageCacheDir = "data/images"

	// AudioDir is where synthesized narration tracks are written
	AudioDir = "data/audio"

	// OutputDir is the directory for rendered videos
	OutputDir = "output"

	// EndScreensDir holds the pre-bundled end screen templates
	EndScreensDir = "assets/end_screens"

	// PlaceholderImage is the generic fallback visual when search yields nothing
	PlaceholderImage = "assets/placeholder.jpg"
)

// YouTube Constants
const (
	// YouTubeCategoryID for Science & Technology
	YouTubeCategoryID = "28"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "public"
)
