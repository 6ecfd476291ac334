package scriptgen

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/google/uuid"

	"reelforge/config"
	"reelforge/script"
	"reelforge/types"
)

// Generator turns a source article into a structured scene script using the
// Cohere Chat API.
// SDK: github.com/cohere-ai/cohere-go/v2
type Generator struct {
	client *cohereclient.Client
	model  string
}

// NewGeneratorFromEnv builds a generator when COHERE_API_KEY is set.
func NewGeneratorFromEnv() (*Generator, error) {
	apiKey := os.Getenv("COHERE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("COHERE_API_KEY not configured")
	}
	model := os.Getenv("COHERE_CHAT_MODEL")
	if model == "" {
		model = "command-r-plus-08-2024"
	}
	// Custom HTTP client that forces HTTP/1.1 to avoid HTTP/2 protocol errors
	httpClient := &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Generator{client: client, model: model}, nil
}

// sceneCounts maps content types to the scene count requested from the model.
var sceneCounts = map[types.ContentType]int{
	types.ContentDailyUpdate: 5,
	types.ContentBigTech:     6,
	types.ContentLeaderQuote: 4,
	types.ContentArxivPaper:  6,
	types.ContentBookReview:  5,
}

func scenesFor(ct types.ContentType) int {
	if n, ok := sceneCounts[ct]; ok {
		return n
	}
	return 5
}

// scriptEnvelope is the JSON shape the model is asked to emit.
type scriptEnvelope struct {
	Hook   string `json:"hook"`
	Scenes []struct {
		Text           string   `json:"text"`
		TargetDuration float64  `json:"duration"`
		ImageKeywords  []string `json:"image_keywords"`
		VisualCues     string   `json:"visual_cues"`
	} `json:"scenes"`
	CallToAction    string `json:"call_to_action"`
	TitleSuggestion string `json:"title_suggestion"`
}

func buildPrompt(article *types.Article, ct types.ContentType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short-form vertical video script about the article below.\n")
	fmt.Fprintf(&b, "Content type: %s. Use exactly %d scenes.\n", ct, scenesFor(ct))
	b.WriteString("Respond with JSON only, matching this shape:\n")
	b.WriteString(`{"hook": "...", "scenes": [{"text": "...", "duration": 8.0, "image_keywords": ["...", "..."], "visual_cues": "..."}], "call_to_action": "...", "title_suggestion": "..."}`)
	b.WriteString("\nEach scene needs 2-4 image_keywords ordered most to least specific.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	if article.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", article.Summary)
	}
	if article.FullContentText != "" {
		content := article.FullContentText
		if len(content) > 6000 {
			content = content[:6000]
		}
		fmt.Fprintf(&b, "Content:\n%s\n", content)
	}
	return b.String()
}

// Generate produces a validated script for an article. The model response is
// parsed, scene indexes are assigned in order, and the result must pass
// script.Validate before it is returned.
func (g *Generator) Generate(ctx context.Context, article *types.Article, ct types.ContentType) (*types.Script, error) {
	if article == nil {
		return nil, fmt.Errorf("nil article")
	}

	prompt := buildPrompt(article, ct)
	resp, err := g.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &g.model,
	})
	if err != nil {
		return nil, fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Text == "" {
		return nil, fmt.Errorf("cohere chat returned empty response")
	}

	s, err := parseScript(resp.Text)
	if err != nil {
		return nil, err
	}
	s.ContentType = ct
	s.SourceURL = article.URL
	if ct == types.ContentBookReview && article.ImageURL != "" {
		s.CoverURL = article.ImageURL
	}

	if err := script.Validate(s); err != nil {
		return nil, fmt.Errorf("generated script invalid: %w", err)
	}
	log.Printf("[scriptgen] generated %d-scene %s script for %q (%d words)",
		len(s.Scenes), ct, article.Title, s.WordCount)
	return s, nil
}

// parseScript extracts the JSON envelope from the model output. Models often
// wrap JSON in markdown fences or prose; take the outermost object.
func parseScript(raw string) (*types.Script, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var env scriptEnvelope
	if err := json.Unmarshal([]byte(raw[start:end+1]), &env); err != nil {
		return nil, fmt.Errorf("failed to parse script JSON: %w", err)
	}
	if len(env.Scenes) == 0 {
		return nil, fmt.Errorf("model produced no scenes")
	}

	s := &types.Script{
		ID:              uuid.NewString(),
		Hook:            strings.TrimSpace(env.Hook),
		CallToAction:    strings.TrimSpace(env.CallToAction),
		TitleSuggestion: strings.TrimSpace(env.TitleSuggestion),
	}
	for i, sc := range env.Scenes {
		s.Scenes = append(s.Scenes, types.SceneUnit{
			Index:          i + 1,
			Text:           strings.TrimSpace(sc.Text),
			TargetDuration: sc.TargetDuration,
			ImageKeywords:  sc.ImageKeywords,
			VisualCues:     sc.VisualCues,
		})
		s.WordCount += s.Scenes[i].WordCount()
	}
	s.EstimatedDuration = float64(s.WordCount) / config.FallbackWordsPerSecond
	return s, nil
}
