// Package nutrition estimates per-serving nutrition from an ingredient list.
package nutrition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/chefvision/server/internal/config"
	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/metrics"
	"github.com/chefvision/server/internal/services/ai"
	"github.com/chefvision/server/internal/services/gemini"
	"github.com/chefvision/server/internal/services/recipe"
)

// Provider estimates nutrition for a list of ingredients.
type Provider interface {
	GenerateNutrition(ctx context.Context, ingredients []string) (recipe.NutritionalInfo, error)
}

var nutritionSchema = func() *genai.Schema {
	props := make(map[string]*genai.Schema)
	for _, key := range recipe.RequiredNutritionKeys() {
		props[key] = &genai.Schema{
			Type:        genai.TypeString,
			Description: fmt.Sprintf("Estimated %s per serving, with unit.", strings.ToLower(key)),
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   recipe.RequiredNutritionKeys(),
	}
}()

// GeminiProvider implements Provider with Gemini structured output.
type GeminiProvider struct {
	models gemini.ContentGenerator
	model  string
}

func NewGeminiProvider(models gemini.ContentGenerator, model string) *GeminiProvider {
	return &GeminiProvider{models: models, model: model}
}

// GenerateNutrition rejects an empty list before calling upstream. A response
// missing any required key is a shape error.
func (p *GeminiProvider) GenerateNutrition(ctx context.Context, ingredients []string) (recipe.NutritionalInfo, error) {
	if len(ingredients) == 0 {
		return nil, apperrors.NewValidationError(
			"ingredients are required for nutrition estimation",
			"INGREDIENTS_REQUIRED",
			"Generate recipe details before estimating nutrition.",
		)
	}

	start := time.Now()
	outcome := "success"
	defer func() {
		metrics.RecordAIGeneration(ctx, p.model, "nutrition", start)
		metrics.RecordExternalCall(ctx, "gemini", outcome, start)
	}()

	var info recipe.NutritionalInfo
	err := gemini.GenerateJSON(ctx, p.models, gemini.JSONRequest{
		Model:  p.model,
		System: ai.NutritionSystemPrompt(),
		Prompt: ai.BuildNutritionPrompt(ingredients),
		Schema: nutritionSchema,
	}, &info)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("nutrition: %w", err)
	}

	if err := info.Validate(); err != nil {
		outcome = "invalid"
		return nil, fmt.Errorf("nutrition: %w", err)
	}
	return info, nil
}

// NewProvider creates the nutrition provider named by the text configuration.
func NewProvider(cfg config.TextConfig, models gemini.ContentGenerator) (Provider, error) {
	switch recipe.ProviderType(cfg.Provider) {
	case recipe.ProviderGemini, "":
		if models == nil {
			return nil, fmt.Errorf("nutrition: gemini provider requires a client")
		}
		return NewGeminiProvider(models, cfg.Model), nil
	default:
		return nil, fmt.Errorf("nutrition: unknown text provider %q", cfg.Provider)
	}
}
