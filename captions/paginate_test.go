package captions

import (
	"fmt"
	"reflect"
	"testing"

	"reelforge/types"
)

func wordsFixture(n int) []types.WordTiming {
	words := make([]types.WordTiming, n)
	for i := range words {
		words[i] = types.WordTiming{
			Word:  fmt.Sprintf("w%d", i),
			Start: float64(i) * 0.4,
			End:   float64(i+1) * 0.4,
		}
	}
	return words
}

func TestPaginateCompleteness(t *testing.T) {
	// No word dropped or duplicated, order preserved.
	words := wordsFixture(10)

	pages := Paginate(words, 3)
	var flattened []string
	for _, p := range pages {
		flattened = append(flattened, p.Words...)
	}

	want := make([]string, len(words))
	for i, w := range words {
		want[i] = w.Word
	}
	if !reflect.DeepEqual(flattened, want) {
		t.Fatalf("flattened pages = %v, want %v", flattened, want)
	}
}

func TestPaginatePageSizing(t *testing.T) {
	words := wordsFixture(10)

	pages := Paginate(words, 3)
	if len(pages) != 4 {
		t.Fatalf("expected 4 pages for 10 words, got %d", len(pages))
	}
	for i, p := range pages[:3] {
		if len(p.Words) != 3 {
			t.Fatalf("page %d has %d words, want 3", i, len(p.Words))
		}
	}
	if len(pages[3].Words) != 1 {
		t.Fatalf("final page has %d words, want 1", len(pages[3].Words))
	}
}

func TestPaginateTimingSpansWords(t *testing.T) {
	words := wordsFixture(6)

	pages := Paginate(words, 3)
	if pages[0].Start != words[0].Start || pages[0].End != words[2].End {
		t.Fatalf("page 0 spans [%.2f, %.2f], want [%.2f, %.2f]",
			pages[0].Start, pages[0].End, words[0].Start, words[2].End)
	}
	if pages[1].Start != words[3].Start || pages[1].End != words[5].End {
		t.Fatalf("page 1 spans [%.2f, %.2f], want [%.2f, %.2f]",
			pages[1].Start, pages[1].End, words[3].Start, words[5].End)
	}
}

func TestPaginateIsRestartable(t *testing.T) {
	words := wordsFixture(7)

	first := Paginate(words, 3)
	second := Paginate(words, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("pagination must be identical across runs on the same input")
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	if pages := Paginate(nil, 3); len(pages) != 0 {
		t.Fatalf("expected no pages for empty input, got %d", len(pages))
	}
}

func TestActiveWordAt(t *testing.T) {
	words := []types.WordTiming{
		{Word: "one", Start: 0.0, End: 0.5},
		{Word: "two", Start: 0.5, End: 1.0},
		// Gap in narration between 1.0 and 1.4.
		{Word: "three", Start: 1.4, End: 2.0},
	}

	cases := []struct {
		t    float64
		want int
	}{
		{0.0, 0},
		{0.25, 0},
		{0.75, 1},
		{1.2, -1}, // inside the gap
		{1.5, 2},
		{2.0, 2},
		{5.0, -1}, // past the end
	}
	for _, c := range cases {
		if got := ActiveWordAt(words, c.t); got != c.want {
			t.Fatalf("ActiveWordAt(%.2f) = %d, want %d", c.t, got, c.want)
		}
	}
}

func TestPageText(t *testing.T) {
	p := types.CaptionPage{Words: []string{"big", "news", "today"}}
	if got := PageText(p); got != "big news today" {
		t.Fatalf("PageText = %q", got)
	}
}
