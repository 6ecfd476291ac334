package upload

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"reelforge/config"
	"reelforge/types"
)

// Metadata is the listing information attached to an uploaded video.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

// Uploader publishes rendered videos to YouTube via a service account.
type Uploader struct {
	service *youtube.Service
}

// NewUploader builds an uploader from a service account JSON file.
func NewUploader(ctx context.Context, serviceAccountFile string) (*Uploader, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	client := jwtConfig.Client(ctx)

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &Uploader{service: service}, nil
}

// UploadVideo publishes one video and returns its YouTube ID.
func (u *Uploader) UploadVideo(videoPath string, metadata Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	log.Printf("[upload] uploading %s (%.2f MB)", videoPath, float64(fileInfo.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           config.YouTubePrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(file)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("[upload] done: https://youtube.com/shorts/%s", response.Id)
	return response.Id, nil
}

// contentTags maps content types to their listing tags.
var contentTags = map[types.ContentType][]string{
	types.ContentBookReview: {"book review", "books", "reading", "book summary"},
	types.ContentArxivPaper: {"AI research", "machine learning", "arxiv", "paper explained"},
}

var defaultTags = []string{"tech news", "AI", "technology", "artificial intelligence", "tech shorts"}

// GenerateMetadata builds the YouTube listing for a finished script. Titles
// are truncated to the platform limit; the source link goes in the
// description.
func GenerateMetadata(s *types.Script) Metadata {
	title := s.TitleSuggestion
	if title == "" {
		title = s.Hook
	}
	if len(title) > config.MaxTitleLength {
		title = title[:config.MaxTitleLength-3] + "..."
	}

	description := s.Hook
	if s.SourceURL != "" {
		description += fmt.Sprintf("\n\nSource: %s", s.SourceURL)
	}
	description += "\n\nFollow for daily updates!\n#tech #ai #shorts"

	tags := defaultTags
	if t, ok := contentTags[s.ContentType]; ok {
		tags = t
	}

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        tags,
		CategoryID:  config.YouTubeCategoryID,
	}
}
