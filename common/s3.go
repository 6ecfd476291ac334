package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and fall back to the standard AWS config/credential chain.
type S3Config struct {
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (S3-compatible providers).
	UsePathStyle bool
	// Bucket receives rendered videos and archived audio.
	Bucket string
	// Prefix is prepended to every key, e.g. "reelforge/".
	Prefix string
}

// S3 wraps the AWS SDK for Go v2 S3 client with the narrow surface the
// pipeline needs: upload finished artifacts, check and fetch existing ones.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3FromEnv builds a client from S3_BUCKET, S3_REGION, S3_PROFILE,
// S3_PREFIX and S3_USE_PATH_STYLE. Returns nil (no error) when S3_BUCKET is
// unset: uploads are optional and the pipeline keeps artifacts local.
func NewS3FromEnv(ctx context.Context) (*S3, error) {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return nil, nil
	}

	cfg := S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
		Bucket:       bucket,
		Prefix:       strings.TrimSpace(os.Getenv("S3_PREFIX")),
	}
	return NewS3(ctx, cfg)
}

// NewS3 creates a new S3 wrapper using the default AWS configuration chain,
// with optional overrides from S3Config.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{client: c, bucket: cfg.Bucket, prefix: prefix}, nil
}

// Put uploads an object under the configured prefix.
func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	_, err := s.client.PutObject(ctx, in)
	return err
}

// UploadVideo streams a rendered mp4 to videos/<jobID>.mp4 and returns the
// object key.
func (s *S3) UploadVideo(ctx context.Context, jobID, videoPath string) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video: %w", err)
	}
	defer file.Close()

	key := path.Join("videos", jobID+".mp4")
	if err := s.Put(ctx, key, file, "video/mp4"); err != nil {
		return "", fmt.Errorf("video upload failed: %w", err)
	}
	return s.prefix + key, nil
}

// UploadAudio archives the narration track to audio/<jobID>.mp3.
func (s *S3) UploadAudio(ctx context.Context, jobID, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio: %w", err)
	}
	defer file.Close()

	key := path.Join("audio", jobID+".mp3")
	if err := s.Put(ctx, key, file, "audio/mpeg"); err != nil {
		return "", fmt.Errorf("audio upload failed: %w", err)
	}
	return s.prefix + key, nil
}

// Get fetches an object and returns its streaming body. Caller must Close it.
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// Exists returns true if the object exists; false if 404/NotFound.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if respErr.HTTPStatusCode() == 404 {
			return false, nil
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "NotFound" {
			return false, nil
		}
	}

	return false, err
}
