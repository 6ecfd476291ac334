package scriptgen

import (
	"strings"
	"testing"
)

const sampleResponse = "Here is the script:\n```json\n" + `{
  "hook": "AI just changed everything.",
  "scenes": [
    {"text": "OpenAI released a new model today.", "duration": 6.0, "image_keywords": ["openai logo", "ai model"], "visual_cues": "logo reveal"},
    {"text": "It beats every benchmark by a wide margin.", "duration": 7.5, "image_keywords": ["benchmark chart"], "visual_cues": ""}
  ],
  "call_to_action": "Follow for more AI news.",
  "title_suggestion": "OpenAI Drops a Bombshell"
}` + "\n```\nLet me know if you want changes."

func TestParseScriptExtractsEnvelopeFromProse(t *testing.T) {
	s, err := parseScript(sampleResponse)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}

	if s.Hook != "AI just changed everything." {
		t.Fatalf("hook = %q", s.Hook)
	}
	if len(s.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(s.Scenes))
	}
	for i, sc := range s.Scenes {
		if sc.Index != i+1 {
			t.Fatalf("scene %d has index %d", i, sc.Index)
		}
	}
	if s.Scenes[1].TargetDuration != 7.5 {
		t.Fatalf("scene 2 duration = %.1f", s.Scenes[1].TargetDuration)
	}
	if s.TitleSuggestion != "OpenAI Drops a Bombshell" {
		t.Fatalf("title = %q", s.TitleSuggestion)
	}
	if s.ID == "" {
		t.Fatal("script must get an ID")
	}
}

func TestParseScriptCountsWordsAcrossScenes(t *testing.T) {
	s, err := parseScript(sampleResponse)
	if err != nil {
		t.Fatalf("parseScript failed: %v", err)
	}

	want := 0
	for _, sc := range s.Scenes {
		want += len(strings.Fields(sc.Text))
	}
	if s.WordCount != want {
		t.Fatalf("word count = %d, want %d", s.WordCount, want)
	}
	if s.EstimatedDuration <= 0 {
		t.Fatalf("estimated duration = %.2f", s.EstimatedDuration)
	}
}

func TestParseScriptRejectsGarbage(t *testing.T) {
	if _, err := parseScript("no json here"); err == nil {
		t.Fatal("expected error for prose-only response")
	}
	if _, err := parseScript(`{"hook": "x", "scenes": []}`); err == nil {
		t.Fatal("expected error for empty scene list")
	}
}
