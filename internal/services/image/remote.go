package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chefvision/server/internal/httpclient"
	"github.com/chefvision/server/internal/metrics"
)

// maxRemoteBodyBytes fits a base64 data URI of the largest accepted image.
const maxRemoteBodyBytes = 2 * maxImageBytes

// RemoteProxy calls an image proxy deployed as a separate service.
type RemoteProxy struct {
	baseURL string
	client  *http.Client
}

func NewRemoteProxy(baseURL string, client *http.Client) *RemoteProxy {
	if client == nil {
		client = httpclient.New(0)
	}
	return &RemoteProxy{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

type remoteRequest struct {
	Prompt string `json:"prompt"`
}

type remoteResponse struct {
	Image string `json:"image"`
	Error string `json:"error"`
}

// GenerateImage posts the prompt to <base>/api/generate-image. A non-2xx status
// or a response without an image is an error.
func (r *RemoteProxy) GenerateImage(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	outcome := "success"
	defer func() { metrics.RecordExternalCall(ctx, "image-proxy", outcome, start) }()

	body, err := json.Marshal(remoteRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(httpclient.WithUpstream(ctx, "image-proxy"), http.MethodPost, r.baseURL+"/api/generate-image", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		outcome = "error"
		return "", fmt.Errorf("image proxy: %w", err)
	}
	defer resp.Body.Close()

	raw, err := readLimited(resp.Body, maxRemoteBodyBytes)
	if err != nil {
		outcome = "error"
		return "", fmt.Errorf("image proxy: reading response: %w", err)
	}

	var decoded remoteResponse
	_ = json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "error"
		msg := decoded.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &StatusError{Model: "image-proxy", StatusCode: resp.StatusCode, Body: "Server error: " + msg}
	}
	if decoded.Image == "" {
		outcome = "invalid"
		return "", fmt.Errorf("image proxy: response has no image")
	}
	return decoded.Image, nil
}
