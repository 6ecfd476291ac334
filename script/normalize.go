package script

import (
	"fmt"
	"strings"

	"reelforge/types"
)

// Variant distinguishes the two script-authoring paths. Both share one
// normalizer so the narration rules cannot drift between them again.
type Variant string

const (
	VariantStandard   Variant = "standard"
	VariantCommentary Variant = "commentary"
)

// EmptySceneError reports a scene with no narratable text. Fatal for the
// script; never retried.
type EmptySceneError struct {
	Index int
}

func (e *EmptySceneError) Error() string {
	return fmt.Sprintf("scene %d has no narration text", e.Index)
}

// speaksHookStandalone reports whether a content type narrates the hook and
// CTA as separate spoken segments in addition to the scene texts. Every
// current content type authors the hook into scene 1 and the CTA into the
// final scene, so all entries are false; the table exists so product can flip
// a single type without touching the normalizer.
var speaksHookStandalone = map[types.ContentType]bool{
	types.ContentDailyUpdate:   false,
	types.ContentBigTech:       false,
	types.ContentLeaderQuote:   false,
	types.ContentArxivPaper:    false,
	types.ContentBookReview:    false,
	types.ContentYoutubeImport: false,
}

// Validate checks the structural invariants of a script: at least one scene,
// contiguous 1-based indexes, and non-empty narration text per scene.
func Validate(s *types.Script) error {
	if len(s.Scenes) == 0 {
		return fmt.Errorf("script has no scenes")
	}
	for i, scene := range s.Scenes {
		if scene.Index != i+1 {
			return fmt.Errorf("scene indexes not contiguous: position %d has index %d", i, scene.Index)
		}
		if strings.TrimSpace(scene.Text) == "" {
			return &EmptySceneError{Index: scene.Index}
		}
	}
	return nil
}

// Normalize merges a script into the single text blob to synthesize.
//
// The narration is the ordered join of scene texts only. Hook and CTA are
// already embedded in scene 1 and the final scene by the authoring contract,
// so appending them would speak the opening and closing lines twice. Both the
// standard and commentary variants go through this one function.
func Normalize(s *types.Script, variant Variant) (string, error) {
	texts, err := SceneTextIndex(s)
	if err != nil {
		return "", err
	}

	narration := strings.Join(texts, " ")

	if speaksHookStandalone[s.ContentType] {
		parts := make([]string, 0, 3)
		if hook := strings.TrimSpace(s.Hook); hook != "" {
			parts = append(parts, hook)
		}
		parts = append(parts, narration)
		if cta := strings.TrimSpace(s.CallToAction); cta != "" {
			parts = append(parts, cta)
		}
		narration = strings.Join(parts, " ")
	}

	return narration, nil
}

// SceneTextIndex returns the trimmed narration text of every scene in order,
// one entry per scene, used downstream for timing attribution.
func SceneTextIndex(s *types.Script) ([]string, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	texts := make([]string, len(s.Scenes))
	for i, scene := range s.Scenes {
		texts[i] = strings.TrimSpace(scene.Text)
	}
	return texts, nil
}

// FormatForReview renders the script with structural markers for editorial
// display. This is the only place hook and CTA appear as separate blocks.
func FormatForReview(s *types.Script, variant Variant) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[HOOK]\n%s\n\n", s.Hook)
	for _, scene := range s.Scenes {
		fmt.Fprintf(&b, "[SCENE %d]\n%s\n", scene.Index, scene.Text)
		if scene.VisualCues != "" {
			fmt.Fprintf(&b, "[VISUAL: %s]\n", scene.VisualCues)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "[CTA]\n%s\n", s.CallToAction)

	if variant == VariantCommentary && s.SourceURL != "" {
		fmt.Fprintf(&b, "\n[SOURCE]\n%s\n", s.SourceURL)
	}

	return b.String()
}

// CountWords returns the word count of the normalized narration.
func CountWords(narration string) int {
	return len(strings.Fields(narration))
}
