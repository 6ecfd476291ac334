package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reelforge/types"
)

// APIClient is a thin HTTP client for the render API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the given API base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// ListJobs fetches every known render job.
func (c *APIClient) ListJobs() ([]*types.RenderJob, error) {
	resp, err := c.client.Get(c.baseURL + "/api/jobs")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Jobs []*types.RenderJob `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Jobs, nil
}

// SubmitScript queues a script for rendering and returns the new job ID.
func (c *APIClient) SubmitScript(s *types.Script) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Post(c.baseURL+"/api/render", "application/json", bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.JobID, nil
}
