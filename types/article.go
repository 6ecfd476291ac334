package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Article is a source document a script can be generated from: an RSS item
// with its full text extracted.
type Article struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	PublishedAt     time.Time `json:"published_at"`
	FetchedAt       time.Time `json:"fetched_at"`
	Summary         string    `json:"summary"`
	Author          string    `json:"author,omitempty"`
	Categories      []string  `json:"categories,omitempty"`
	FullContentText string    `json:"full_content_text"`
	Excerpt         string    `json:"excerpt,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	ExtractionError string    `json:"extraction_error,omitempty"`
}

// GenerateArticleID creates a stable ID from a URL.
func GenerateArticleID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

// SuggestContentType guesses the script content type from the article's
// source and categories. Callers may override per channel.
func (a *Article) SuggestContentType() ContentType {
	url := strings.ToLower(a.URL)
	if strings.Contains(url, "arxiv.org") {
		return ContentArxivPaper
	}

	for _, c := range a.Categories {
		switch strings.ToLower(c) {
		case "books", "book review", "reviews":
			return ContentBookReview
		case "big tech", "companies":
			return ContentBigTech
		}
	}
	return ContentDailyUpdate
}
