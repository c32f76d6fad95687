package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RemoveBGClient calls the remove.bg HTTP API to strip an image background.
// One attempt per call; the caller decides what a failure means.
type RemoveBGClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewRemoveBGClient(endpoint, apiKey string, httpClient *http.Client) *RemoveBGClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RemoveBGClient{endpoint: endpoint, apiKey: apiKey, httpClient: httpClient}
}

var _ BackgroundStripper = (*RemoveBGClient)(nil)

type removeBGRequest struct {
	ImageFileB64 string `json:"image_file_b64"`
	Size         string `json:"size"`
}

type removeBGResponse struct {
	Data struct {
		ResultB64 string `json:"result_b64"`
	} `json:"data"`
}

func (c *RemoveBGClient) Strip(ctx context.Context, image []byte) ([]byte, error) {
	body, err := json.Marshal(removeBGRequest{
		ImageFileB64: base64.StdEncoding.EncodeToString(image),
		Size:         "auto",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("background removal failed: %s; body: %s", resp.Status, string(b))
	}

	var parsed removeBGResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("background removal response unparseable: %w", err)
	}

	result, err := base64.StdEncoding.DecodeString(parsed.Data.ResultB64)
	if err != nil {
		return nil, fmt.Errorf("background removal result undecodable: %w", err)
	}
	return result, nil
}
