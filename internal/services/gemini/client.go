// Package gemini holds the shared plumbing for calls to the Gemini API:
// client construction, structured JSON generation and inline image extraction.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/httpclient"
)

// ErrEmptyResponse is returned when the model answers without usable content.
var ErrEmptyResponse = errors.New("gemini: empty response")

// ContentGenerator is the slice of *genai.Models the adapters use.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient builds a Gemini API client whose HTTP traffic goes through the instrumented transport.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpclient.New(0),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return client, nil
}

// JSONRequest describes one structured-output call.
type JSONRequest struct {
	Model  string
	System string
	Prompt string
	Schema *genai.Schema
}

// GenerateJSON asks the model for JSON matching req.Schema and decodes it into out.
// Unparseable output is reported as an upstream shape error.
func GenerateJSON(ctx context.Context, gen ContentGenerator, req JSONRequest, out any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	res, err := gen.GenerateContent(httpclient.WithUpstream(ctx, "gemini"), req.Model, []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}, cfg)
	if err != nil {
		return fmt.Errorf("gemini: generating content: %w", err)
	}

	text := ResponseText(res)
	if text == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), out); err != nil {
		return apperrors.NewUpstreamShapeError(
			fmt.Sprintf("gemini: response is not valid JSON: %v", err),
			"INVALID_JSON",
		)
	}
	return nil
}

// ResponseText concatenates the text parts of the first candidate.
func ResponseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// InlineImage returns the first inline image blob of the first candidate.
func InlineImage(res *genai.GenerateContentResponse) (*genai.Blob, bool) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, false
	}
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			return part.InlineData, true
		}
	}
	return nil, false
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
