package feeds

import (
	"fmt"
	"log"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"reelforge/types"
)

const (
	WorkerCount      = 5
	extractorTimeout = 30 * time.Second
)

// ExtractAllContent fetches and extracts full text for all articles using a
// worker pool. Failures are recorded on the article instead of aborting the
// batch; script generation skips articles with extraction errors.
func ExtractAllContent(articles []*types.Article) {
	var wg sync.WaitGroup
	articleChan := make(chan *types.Article, len(articles))

	for i := 0; i < WorkerCount; i++ {
		go func(workerID int) {
			for article := range articleChan {
				if err := extractContent(article); err != nil {
					article.ExtractionError = err.Error()
					log.Printf("[feeds] worker %d failed to extract %s: %v", workerID, article.URL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, article := range articles {
		wg.Add(1)
		articleChan <- article
	}

	wg.Wait()
	close(articleChan)
}

// extractContent pulls the readable article body for a single article.
func extractContent(article *types.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article URL is empty")
	}

	extracted, err := readability.FromURL(article.URL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	article.FullContentText = extracted.TextContent
	article.Excerpt = extracted.Excerpt

	if article.ImageURL == "" {
		article.ImageURL = extracted.Image
	}
	if article.Author == "" {
		article.Author = extracted.Byline
	}

	log.Printf("[feeds] extracted: %s", article.Title)
	return nil
}
