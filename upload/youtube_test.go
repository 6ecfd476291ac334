package upload

import (
	"strings"
	"testing"

	"reelforge/types"
)

func TestGenerateMetadataTruncatesLongTitles(t *testing.T) {
	s := &types.Script{
		TitleSuggestion: strings.Repeat("word ", 40),
		ContentType:     types.ContentDailyUpdate,
	}

	m := GenerateMetadata(s)
	if len(m.Title) > 100 {
		t.Fatalf("title length %d exceeds limit", len(m.Title))
	}
	if !strings.HasSuffix(m.Title, "...") {
		t.Fatalf("truncated title should end with ellipsis: %q", m.Title)
	}
}

func TestGenerateMetadataFallsBackToHook(t *testing.T) {
	s := &types.Script{Hook: "The hook line.", ContentType: types.ContentBigTech}

	m := GenerateMetadata(s)
	if m.Title != "The hook line." {
		t.Fatalf("title = %q", m.Title)
	}
}

func TestGenerateMetadataIncludesSource(t *testing.T) {
	s := &types.Script{
		TitleSuggestion: "A Title",
		SourceURL:       "https://example.com/article",
		ContentType:     types.ContentBookReview,
	}

	m := GenerateMetadata(s)
	if !strings.Contains(m.Description, "https://example.com/article") {
		t.Fatal("description should include the source URL")
	}
	if m.CategoryID != "28" {
		t.Fatalf("category = %q", m.CategoryID)
	}

	found := false
	for _, tag := range m.Tags {
		if tag == "book review" {
			found = true
		}
	}
	if !found {
		t.Fatal("book review content should carry book tags")
	}
}
