package image

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/chefvision/server/internal/httpclient"
	"github.com/chefvision/server/internal/services/gemini"
)

// GeminiImageModel generates an image with a Gemini image-output model.
type GeminiImageModel struct {
	models gemini.ContentGenerator
	model  string
}

func NewGeminiImageModel(models gemini.ContentGenerator, model string) *GeminiImageModel {
	return &GeminiImageModel{models: models, model: model}
}

func (m *GeminiImageModel) Name() string {
	return m.model
}

func (m *GeminiImageModel) Configured() bool {
	return m.models != nil
}

// Generate returns the first inline image part of the response.
func (m *GeminiImageModel) Generate(ctx context.Context, prompt string) ([]byte, error) {
	res, err := m.models.GenerateContent(httpclient.WithUpstream(ctx, "gemini"), m.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", m.model, err)
	}
	blob, ok := gemini.InlineImage(res)
	if !ok {
		return nil, fmt.Errorf("gemini %s: no image returned by model", m.model)
	}
	return blob.Data, nil
}
