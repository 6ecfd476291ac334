package imagesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultEndpoint = "https://google.serper.dev/images"

// SerperClient queries the Serper image search API.
// Docs: https://serper.dev
// Endpoint: POST https://google.serper.dev/images
// Request: {"q": "query", "num": 10}
// Response: {"images": [{"imageUrl": "...", "title": "..."}, ...]}
type SerperClient struct {
	apiKey   string
	endpoint string
	num      int
	client   *http.Client
}

// NewSerperClientFromEnv builds a client from SERPER_API_KEY.
func NewSerperClientFromEnv() (*SerperClient, error) {
	apiKey := os.Getenv("SERPER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SERPER_API_KEY not configured")
	}
	return NewSerperClient(apiKey), nil
}

// NewSerperClient builds a client with the default endpoint.
func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		num:      10,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchImages returns candidate image URLs for a query, best match first.
// An empty slice with a nil error means the query produced no usable results.
func (s *SerperClient) SearchImages(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	payload := map[string]interface{}{
		"q":   query,
		"num": s.num,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("serper error: status %d: %v", resp.StatusCode, body)
	}

	var parsed struct {
		Images []struct {
			ImageURL string `json:"imageUrl"`
			Title    string `json:"title"`
		} `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode serper response: %w", err)
	}

	urls := make([]string, 0, len(parsed.Images))
	for _, img := range parsed.Images {
		if img.ImageURL != "" {
			urls = append(urls, img.ImageURL)
		}
	}
	return urls, nil
}
