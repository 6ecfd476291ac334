package endscreen

import (
	"fmt"
	"path/filepath"

	"reelforge/config"
	"reelforge/types"
)

// Duration is the fixed length of every end screen in seconds.
const Duration = config.EndScreenDuration

// ctaMessages maps content types to their closing call-to-action line.
var ctaMessages = map[types.ContentType]string{
	types.ContentDailyUpdate:   "Subscribe for Daily AI News!",
	types.ContentBigTech:       "Follow for In-Depth Analysis!",
	types.ContentLeaderQuote:   "Get Inspired Daily!",
	types.ContentArxivPaper:    "Learn Cutting-Edge AI!",
	types.ContentBookReview:    "Subscribe for Book Reviews!",
	types.ContentYoutubeImport: "Subscribe for More Insights!",
}

// channelNames maps content types to the channel handle shown on screen.
var channelNames = map[types.ContentType]string{
	types.ContentBookReview: "@60SecondBooks",
}

const defaultChannel = "@AINewsDaily"

// templates maps content types to a branded template image under
// config.EndScreensDir. Types without a dedicated template share the generic
// one.
var templates = map[types.ContentType]string{
	types.ContentBookReview:  "book_review.png",
	types.ContentLeaderQuote: "leader_quote.png",
}

const defaultTemplate = "generic.png"

// TemplatePath returns the end screen image for a content type.
func TemplatePath(ct types.ContentType) string {
	name, ok := templates[ct]
	if !ok {
		name = defaultTemplate
	}
	return filepath.Join(config.EndScreensDir, name)
}

// CTAMessage returns the closing engagement line for a content type.
func CTAMessage(ct types.ContentType) string {
	if msg, ok := ctaMessages[ct]; ok {
		return msg
	}
	return ctaMessages[types.ContentDailyUpdate]
}

// ChannelName returns the channel handle for a content type.
func ChannelName(ct types.ContentType) string {
	if name, ok := channelNames[ct]; ok {
		return name
	}
	return defaultChannel
}

// Layer builds the end screen layer appended after the narration.
func Layer(ct types.ContentType, startAt float64) (types.EndScreenLayer, error) {
	if startAt < 0 {
		return types.EndScreenLayer{}, fmt.Errorf("end screen cannot start at %.3fs", startAt)
	}
	return types.EndScreenLayer{
		ImagePath: TemplatePath(ct),
		Start:     startAt,
		Duration:  Duration,
	}, nil
}
