package captions

import (
	"sort"
	"strings"

	"reelforge/config"
	"reelforge/types"
)

// Paginate groups consecutive word timings into caption pages of pageSize
// words (the final page may be shorter). Page timing spans the first word's
// start to the last word's end. The result is fully determined by the input,
// so re-running pagination yields the identical sequence.
func Paginate(words []types.WordTiming, pageSize int) []types.CaptionPage {
	if pageSize <= 0 {
		pageSize = config.CaptionPageSize
	}

	var pages []types.CaptionPage
	for i := 0; i < len(words); i += pageSize {
		end := i + pageSize
		if end > len(words) {
			end = len(words)
		}
		chunk := words[i:end]

		page := types.CaptionPage{
			Words: make([]string, len(chunk)),
			Start: chunk[0].Start,
			End:   chunk[len(chunk)-1].End,
		}
		for j, w := range chunk {
			page.Words[j] = w.Word
		}
		pages = append(pages, page)
	}
	return pages
}

// ActiveWordAt returns the index into words of the word being spoken at
// playback timestamp t, or -1 if t falls outside every word. The compositor
// queries this per frame for word-highlight rendering instead of re-running
// pagination.
func ActiveWordAt(words []types.WordTiming, t float64) int {
	// First word whose end is at or after t.
	i := sort.Search(len(words), func(i int) bool { return words[i].End >= t })
	if i == len(words) {
		return -1
	}
	if words[i].Start <= t {
		return i
	}
	return -1
}

// PageText renders a page's words as the single caption line shown on screen.
func PageText(p types.CaptionPage) string {
	return strings.Join(p.Words, " ")
}
