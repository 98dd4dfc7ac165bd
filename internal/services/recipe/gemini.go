package recipe

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/chefvision/server/internal/metrics"
	"github.com/chefvision/server/internal/services/ai"
	"github.com/chefvision/server/internal/services/gemini"
)

var detailsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ingredients": {
			Type:        genai.TypeArray,
			Description: "Ingredients with quantities, one per entry.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
		"steps": {
			Type:        genai.TypeArray,
			Description: "Preparation steps in order.",
			Items:       &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"ingredients", "steps"},
}

// GeminiProvider implements DetailsProvider with Gemini structured output.
type GeminiProvider struct {
	models gemini.ContentGenerator
	model  string
}

// NewGeminiProvider creates a new Gemini recipe details provider
func NewGeminiProvider(models gemini.ContentGenerator, model string) *GeminiProvider {
	return &GeminiProvider{models: models, model: model}
}

// GenerateDetails asks the model for ingredients and steps. Empty lists are a shape error.
func (p *GeminiProvider) GenerateDetails(ctx context.Context, req Request) (*Details, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		metrics.RecordAIGeneration(ctx, p.model, "details", start)
		metrics.RecordExternalCall(ctx, "gemini", outcome, start)
	}()

	req = req.Normalize()

	var details Details
	err := gemini.GenerateJSON(ctx, p.models, gemini.JSONRequest{
		Model:  p.model,
		System: ai.DetailsSystemPrompt(),
		Prompt: ai.BuildDetailsPrompt(req.DishName, req.DietaryModifier),
		Schema: detailsSchema,
	}, &details)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("recipe details: %w", err)
	}

	details.Clean()
	if err := details.Validate(); err != nil {
		outcome = "invalid"
		return nil, fmt.Errorf("recipe details: %w", err)
	}
	return &details, nil
}
