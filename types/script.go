package types

import "strings"

// ContentType drives end-screen selection and pacing targets.
type ContentType string

const (
	ContentDailyUpdate   ContentType = "daily_update"
	ContentBigTech       ContentType = "big_tech"
	ContentLeaderQuote   ContentType = "leader_quote"
	ContentArxivPaper    ContentType = "arxiv_paper"
	ContentBookReview    ContentType = "book_review"
	ContentYoutubeImport ContentType = "youtube_import"
)

// SceneUnit is one beat of narration. Index values are 1-based and contiguous.
type SceneUnit struct {
	Index           int      `json:"index"`
	Text            string   `json:"text"`
	TargetDuration  float64  `json:"target_duration_seconds,omitempty"`
	ImageKeywords   []string `json:"image_keywords,omitempty"`
	VisualCues      string   `json:"visual_cues,omitempty"`
}

// WordCount returns the number of whitespace-separated words in the scene text.
func (s SceneUnit) WordCount() int {
	return len(strings.Fields(s.Text))
}

// Script is the narration contract produced by the script-generation provider.
//
// Hook and CallToAction are editorial metadata only: scene 1 is authored to
// already contain the hook's content and the final scene the CTA's content,
// so neither field is ever spoken as a separate segment.
type Script struct {
	ID                string      `json:"id,omitempty"`
	Hook              string      `json:"hook"`
	Scenes            []SceneUnit `json:"scenes"`
	CallToAction      string      `json:"call_to_action"`
	ContentType       ContentType `json:"content_type"`
	TitleSuggestion   string      `json:"title_suggestion,omitempty"`
	WordCount         int         `json:"word_count"`
	EstimatedDuration float64     `json:"estimated_duration_seconds"`
	SourceURL         string      `json:"source_url,omitempty"`
	// CoverURL, when set (book reviews), pins scene 1's visual to the cover image.
	CoverURL string `json:"cover_url,omitempty"`
}
