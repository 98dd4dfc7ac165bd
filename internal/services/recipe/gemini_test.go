package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/chefvision/server/internal/config"
	apperrors "github.com/chefvision/server/internal/errors"
)

type fakeModels struct {
	text   string
	err    error
	calls  int
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.config = cfg
	f.prompt = contents[0].Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestGeminiProvider_GenerateDetails(t *testing.T) {
	models := &fakeModels{text: `{"ingredients":["2 cups black beans","1 onion",""],"steps":["Chop the onion.","Simmer everything."]}`}
	p := NewGeminiProvider(models, "gemini-2.5-flash")

	details, err := p.GenerateDetails(context.Background(), Request{DishName: "Chili", DietaryModifier: "Vegan"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2 cups black beans", "1 onion"}, details.Ingredients)
	assert.Equal(t, []string{"Chop the onion.", "Simmer everything."}, details.Steps)
	assert.Contains(t, models.prompt, "Generate a recipe for Vegan Chili.")
	assert.Equal(t, "application/json", models.config.ResponseMIMEType)
	assert.Equal(t, []string{"ingredients", "steps"}, models.config.ResponseSchema.Required)
}

func TestGeminiProvider_EmptyStepsIsShapeError(t *testing.T) {
	models := &fakeModels{text: `{"ingredients":["rice"],"steps":[]}`}
	p := NewGeminiProvider(models, "gemini-2.5-flash")

	_, err := p.GenerateDetails(context.Background(), Request{DishName: "Rice"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUpstreamShape, appErr.Type)
}

func TestGeminiProvider_UpstreamError(t *testing.T) {
	upstream := errors.New("Error 503, Message: The model is overloaded")
	p := NewGeminiProvider(&fakeModels{err: upstream}, "gemini-2.5-flash")

	_, err := p.GenerateDetails(context.Background(), Request{DishName: "Lasagna"})
	assert.ErrorIs(t, err, upstream)
}

func TestNewDetailsProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		wantErr  bool
	}{
		{name: "gemini", provider: "gemini"},
		{name: "default", provider: ""},
		{name: "unknown", provider: "groq", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewDetailsProvider(config.TextConfig{Provider: tt.provider, Model: "gemini-2.5-flash"}, &fakeModels{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &GeminiProvider{}, p)
		})
	}
}

func TestNewDetailsProvider_NilClient(t *testing.T) {
	_, err := NewDetailsProvider(config.TextConfig{Provider: "gemini"}, nil)
	assert.Error(t, err)
}
