package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelforge/types"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.25, "00:01:01,250"},
		{3661.999, "01:01:01,999"},
	}
	for _, c := range cases {
		if got := formatTimestamp(c.seconds); got != c.want {
			t.Errorf("formatTimestamp(%.3f) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestWriteSRT(t *testing.T) {
	overlays := []types.CaptionOverlay{
		{Text: "HELLO WORLD NOW", Window: types.TimeWindow{Start: 0, End: 1.2}},
		{Text: "SECOND PAGE HERE", Window: types.TimeWindow{Start: 1.2, End: 2.4}},
	}

	path := filepath.Join(t.TempDir(), "captions.srt")
	if err := writeSRT(overlays, path); err != nil {
		t.Fatalf("writeSRT failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read SRT: %v", err)
	}
	got := string(data)

	if !strings.Contains(got, "1\n00:00:00,000 --> 00:00:01,200\nHELLO WORLD NOW") {
		t.Fatalf("first cue malformed:\n%s", got)
	}
	if !strings.Contains(got, "2\n00:00:01,200 --> 00:00:02,400\nSECOND PAGE HERE") {
		t.Fatalf("second cue malformed:\n%s", got)
	}
}
