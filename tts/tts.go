package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"reelforge/config"
	"reelforge/types"
)

// Synthesis is the TTS collaborator's output: an audio file on disk, its
// measured duration, and optional word-level alignment when the provider
// supports forced alignment.
type Synthesis struct {
	AudioPath string
	Duration  float64
	Alignment []types.WordTiming
}

// Synthesizer abstracts a text-to-speech provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, narration string) (*Synthesis, error)
}

// EstimateDuration approximates narration length from word count when the
// provider reports none. Average speaking rate per the pacing constants.
func EstimateDuration(wordCount int) float64 {
	return float64(wordCount) / config.FallbackWordsPerSecond
}

// HTTPProvider calls a JSON speech API: POST {text, voice} → {audio (base64
// handled upstream or a URL), duration, words[]}. The default endpoint and
// key come from env (TTS_ENDPOINT, TTS_API_KEY, TTS_VOICE).
type HTTPProvider struct {
	endpoint string
	apiKey   string
	voice    string
	audioDir string
	client   *http.Client
}

// NewHTTPProviderFromEnv builds a provider from TTS_* environment variables.
func NewHTTPProviderFromEnv() (*HTTPProvider, error) {
	endpoint := os.Getenv("TTS_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("TTS_ENDPOINT not configured")
	}
	voice := os.Getenv("TTS_VOICE")
	if voice == "" {
		voice = "alloy"
	}
	if err := os.MkdirAll(config.AudioDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   os.Getenv("TTS_API_KEY"),
		voice:    voice,
		audioDir: config.AudioDir,
		client:   &http.Client{Timeout: 120 * time.Second},
	}, nil
}

type synthesisRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Format string `json:"format"`
	// Alignment asks the provider for word timestamps when supported.
	Alignment bool `json:"alignment"`
}

type synthesisResponse struct {
	AudioBase64 []byte  `json:"audio"`
	Duration    float64 `json:"duration"`
	Words       []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

// Synthesize sends the narration to the provider and writes the returned
// audio to the audio directory. Duration falls back to a word-count estimate
// if the provider omits it.
func (p *HTTPProvider) Synthesize(ctx context.Context, narration string) (*Synthesis, error) {
	if narration == "" {
		return nil, fmt.Errorf("empty narration")
	}

	body, err := json.Marshal(synthesisRequest{
		Text:      narration,
		Voice:     p.voice,
		Format:    "mp3",
		Alignment: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return nil, fmt.Errorf("tts error: status %d: %v", resp.StatusCode, errBody)
	}

	var parsed synthesisResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode tts response: %w", err)
	}
	if len(parsed.AudioBase64) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}

	audioPath := filepath.Join(p.audioDir, fmt.Sprintf("narration_%d.mp3", time.Now().UnixNano()))
	if err := os.WriteFile(audioPath, parsed.AudioBase64, 0644); err != nil {
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}

	out := &Synthesis{AudioPath: audioPath, Duration: parsed.Duration}
	for _, w := range parsed.Words {
		out.Alignment = append(out.Alignment, types.WordTiming{Word: w.Word, Start: w.Start, End: w.End})
	}
	return out, nil
}
