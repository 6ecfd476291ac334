package render

import (
	"fmt"
	"os"

	"reelforge/types"
)

// writeSRT renders the caption overlays as an SRT file. One cue per caption
// page, already synchronized by the compositor.
func writeSRT(overlays []types.CaptionOverlay, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	for i, ov := range overlays {
		fmt.Fprintf(file, "%d\n", i+1)
		fmt.Fprintf(file, "%s --> %s\n",
			formatTimestamp(ov.Window.Start),
			formatTimestamp(ov.Window.End))
		fmt.Fprintf(file, "%s\n\n", ov.Text)
	}

	return nil
}

// formatTimestamp converts seconds to the SRT HH:MM:SS,mmm form.
func formatTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
