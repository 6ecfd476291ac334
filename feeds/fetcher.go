package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"reelforge/types"
)

// Presets maps friendly names to RSS feed URLs used by the demo and worker.
var Presets = map[string]string{
	"tr":    "https://www.technologyreview.com/feed/",
	"hn":    "https://hnrss.org/newest",
	"arxiv": "http://export.arxiv.org/rss/cs.AI",
	"vb":    "https://venturebeat.com/category/ai/feed/",
}

// ResolveFeedURL resolves a preset name to its URL; other inputs pass through
// unchanged and are assumed to be direct URLs.
func ResolveFeedURL(feedInput string) string {
	if url, exists := Presets[feedInput]; exists {
		return url
	}
	return feedInput
}

// FetchFeed retrieves and parses an RSS/Atom feed, returning up to maxCount
// articles in feed order.
func FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]*types.Article, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := min(len(feed.Items), maxCount)
	articles := make([]*types.Article, 0, count)

	for i := 0; i < count; i++ {
		item := feed.Items[i]

		id := item.GUID
		if id == "" && item.Link != "" {
			id = types.GenerateArticleID(item.Link)
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		article := &types.Article{
			ID:          id,
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt,
			FetchedAt:   time.Now(),
			Summary:     summary,
			Author:      author,
			Categories:  append([]string(nil), item.Categories...),
		}
		if item.Image != nil {
			article.ImageURL = item.Image.URL
		}

		articles = append(articles, article)
	}

	return articles, nil
}
