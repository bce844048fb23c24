// Package model_client talks to the external model-adapter service that
// scores lesson transcripts. The adapter owns the shape of the analysis
// record; this client only requires it to be a JSON object.
package model_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a client for the model-adapter API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// AnalyzeRequest asks the adapter to score a single transcript.
type AnalyzeRequest struct {
	Transcript string `json:"transcript"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze sends the transcript for scoring and returns the raw analysis
// record. Callers own context deadlines; the record is passed to the
// validator as-is.
func (c *Client) Analyze(ctx context.Context, transcript string) (map[string]interface{}, error) {
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(AnalyzeRequest{Transcript: transcript}); err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(payload))
	}

	var record map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode analysis record: %w", err)
	}

	return record, nil
}

// Health checks the adapter's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model service health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
