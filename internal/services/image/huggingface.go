package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/chefvision/server/internal/httpclient"
)

// DefaultHuggingFaceURL is the inference router base; the model id is appended.
const DefaultHuggingFaceURL = "https://router.huggingface.co/hf-inference/models"

const maxImageBytes = 20 << 20

// maxErrorBodyBytes bounds the upstream text kept in a StatusError.
const maxErrorBodyBytes = 64 << 10

// HuggingFaceModel calls a text-to-image model on the Hugging Face inference router.
type HuggingFaceModel struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// HuggingFaceOption customises a HuggingFaceModel.
type HuggingFaceOption func(*HuggingFaceModel)

// WithBaseURL points the model at a different router, mainly for tests.
func WithBaseURL(baseURL string) HuggingFaceOption {
	return func(m *HuggingFaceModel) {
		m.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(client *http.Client) HuggingFaceOption {
	return func(m *HuggingFaceModel) {
		m.client = client
	}
}

func NewHuggingFaceModel(model, apiKey string, opts ...HuggingFaceOption) *HuggingFaceModel {
	m := &HuggingFaceModel{
		model:   model,
		apiKey:  apiKey,
		baseURL: DefaultHuggingFaceURL,
		client:  httpclient.New(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *HuggingFaceModel) Name() string {
	return m.model
}

func (m *HuggingFaceModel) Configured() bool {
	return m.apiKey != ""
}

// Generate posts {"inputs": prompt} and returns the raw response body on 2xx.
func (m *HuggingFaceModel) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", m.baseURL, m.model)
	req, err := http.NewRequestWithContext(httpclient.WithUpstream(ctx, "huggingface"), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface %s: %w", m.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{Model: m.model, StatusCode: resp.StatusCode, Body: string(body)}
	}

	payload, err := readLimited(resp.Body, maxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("huggingface %s: reading response: %w", m.model, err)
	}
	return payload, nil
}
