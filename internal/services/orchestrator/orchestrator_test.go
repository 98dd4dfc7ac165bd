package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chefvision/server/internal/config"
	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/services/recipe"
)

var testTimeouts = config.OrchestratorConfig{
	DetailsTimeout:   time.Second,
	NutritionTimeout: time.Second,
	ImageTimeout:     time.Second,
}

var lasagnaDetails = &recipe.Details{
	Ingredients: []string{"12 lasagna noodles", "2 cups ricotta", "1 lb ground beef"},
	Steps:       []string{"Preheat the oven to 375F.", "Layer noodles, sauce and cheese.", "Bake for 45 minutes."},
}

var lasagnaNutrition = recipe.NutritionalInfo{
	"Calories":      "650 kcal",
	"Protein":       "35 g",
	"Carbohydrates": "55 g",
	"Fat":           "30 g",
}

func TestGenerate_Lasagna(t *testing.T) {
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, recipe.Request{DishName: "Lasagna"}).Return(lasagnaDetails, nil).Once()
	nutrition := &mockNutrition{}
	nutrition.On("GenerateNutrition", mock.Anything, lasagnaDetails.Ingredients).Return(lasagnaNutrition, nil).Once()
	images := &fakeImages{image: "data:image/png;base64,TEFTQUdOQQ=="}

	o := New(details, images, nutrition, testTimeouts)
	r, err := o.Generate(context.Background(), recipe.Request{DishName: "Lasagna"})
	require.NoError(t, err)

	assert.Equal(t, "Lasagna", r.Name)
	assert.Equal(t, "", r.Modifier)
	assert.Equal(t, "data:image/png;base64,TEFTQUdOQQ==", r.ImageURL)
	assert.Equal(t, lasagnaDetails.Ingredients, r.Ingredients)
	assert.Equal(t, lasagnaDetails.Steps, r.Steps)
	assert.Equal(t, lasagnaNutrition, r.NutritionalInfo)
	assert.Equal(t, []string{"Professional food photography of Lasagna. High resolution, realistic, appetizing, well-lit."}, images.prompts)

	details.AssertExpectations(t)
	nutrition.AssertExpectations(t)
}

func TestGenerate_VeganChiliDegradesImageAndNutrition(t *testing.T) {
	chili := &recipe.Details{
		Ingredients: []string{"2 cans black beans", "1 onion", "2 tbsp chili powder"},
		Steps:       []string{"Sauté the onion.", "Add beans and spices.", "Simmer 30 minutes."},
	}
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, recipe.Request{DishName: "Chili", DietaryModifier: "Vegan"}).Return(chili, nil).Once()
	nutrition := &mockNutrition{}
	nutrition.On("GenerateNutrition", mock.Anything, chili.Ingredients).Return(nil, errors.New("Error 503, Message: overloaded")).Once()
	images := &fakeImages{err: apperrors.NewImageGenerationError("Model is currently loading", "IMAGE_GENERATION_FAILED", nil)}

	o := New(details, images, nutrition, testTimeouts)
	r, err := o.Generate(context.Background(), recipe.Request{DishName: "Chili", DietaryModifier: "Vegan"})
	require.NoError(t, err)

	assert.Equal(t, "Chili", r.Name)
	assert.Equal(t, "Vegan", r.Modifier)
	assert.Equal(t, recipe.PlaceholderImage, r.ImageURL)
	assert.Equal(t, chili.Steps, r.Steps)
	assert.Equal(t, recipe.UnavailableNutrition(), r.NutritionalInfo)
	assert.Contains(t, images.prompts[0], "Vegan Chili")
	nutrition.AssertExpectations(t)
}

func TestGenerate_DetailsFailureIsFatal(t *testing.T) {
	upstream := errors.New("Error 500, Message: internal error")
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, mock.Anything).Return(nil, upstream).Once()
	nutrition := &mockNutrition{}
	images := &fakeImages{image: "data:image/png;base64,AAA", delay: 5 * time.Second}

	o := New(details, images, nutrition, config.OrchestratorConfig{})
	start := time.Now()
	r, err := o.Generate(context.Background(), recipe.Request{DishName: "Lasagna"})

	assert.Nil(t, r)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "RECIPE_GENERATION_FAILED", appErr.ErrorCode)
	assert.Equal(t, UserFacingError, appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.ErrorIs(t, err, upstream)

	assert.Less(t, time.Since(start), 2*time.Second, "details failure should cancel the image call")
	assert.True(t, images.sawCancel)
	nutrition.AssertNotCalled(t, "GenerateNutrition", mock.Anything, mock.Anything)
}

func TestGenerate_DetailsShapeFailureIsFatal(t *testing.T) {
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, mock.Anything).
		Return(&recipe.Details{Ingredients: []string{"rice"}}, nil).Once()
	nutrition := &mockNutrition{}

	o := New(details, &fakeImages{image: "data:image/png;base64,AAA"}, nutrition, testTimeouts)
	_, err := o.Generate(context.Background(), recipe.Request{DishName: "Rice"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "RECIPE_GENERATION_FAILED", appErr.ErrorCode)
	nutrition.AssertNotCalled(t, "GenerateNutrition", mock.Anything, mock.Anything)
}

func TestGenerate_BlankDishNameMakesNoCalls(t *testing.T) {
	details := &mockDetails{}
	nutrition := &mockNutrition{}
	images := &fakeImages{}

	o := New(details, images, nutrition, testTimeouts)
	_, err := o.Generate(context.Background(), recipe.Request{DishName: "  ", DietaryModifier: "Vegan"})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	details.AssertNotCalled(t, "GenerateDetails", mock.Anything, mock.Anything)
	nutrition.AssertNotCalled(t, "GenerateNutrition", mock.Anything, mock.Anything)
	assert.Zero(t, images.calls)
}

func TestGenerate_NutritionWaitsForImage(t *testing.T) {
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, mock.Anything).Return(lasagnaDetails, nil).Once()
	nutrition := &mockNutrition{}
	nutrition.On("GenerateNutrition", mock.Anything, lasagnaDetails.Ingredients).Return(lasagnaNutrition, nil).Once()
	images := &fakeImages{image: "data:image/png;base64,AAA", delay: 50 * time.Millisecond}

	o := New(details, images, nutrition, testTimeouts)
	_, err := o.Generate(context.Background(), recipe.Request{DishName: "Lasagna"})
	require.NoError(t, err)

	assert.False(t, nutrition.calledAt.Before(images.finishedAt), "nutrition must start after the image step settles")
}

func TestGenerate_ImageTimeoutDegrades(t *testing.T) {
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, mock.Anything).Return(lasagnaDetails, nil).Once()
	nutrition := &mockNutrition{}
	nutrition.On("GenerateNutrition", mock.Anything, mock.Anything).Return(lasagnaNutrition, nil).Once()
	images := &fakeImages{image: "data:image/png;base64,AAA", delay: time.Second}

	o := New(details, images, nutrition, config.OrchestratorConfig{ImageTimeout: 20 * time.Millisecond})
	r, err := o.Generate(context.Background(), recipe.Request{DishName: "Lasagna"})
	require.NoError(t, err)

	assert.Equal(t, recipe.PlaceholderImage, r.ImageURL)
	assert.Equal(t, lasagnaNutrition, r.NutritionalInfo)
}

func TestGenerate_EmptyImageDegrades(t *testing.T) {
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, mock.Anything).Return(lasagnaDetails, nil).Once()
	nutrition := &mockNutrition{}
	nutrition.On("GenerateNutrition", mock.Anything, mock.Anything).Return(lasagnaNutrition, nil).Once()

	o := New(details, &fakeImages{image: ""}, nutrition, testTimeouts)
	r, err := o.Generate(context.Background(), recipe.Request{DishName: "Lasagna"})
	require.NoError(t, err)
	assert.Equal(t, recipe.PlaceholderImage, r.ImageURL)
}

func TestGenerate_PartialNutritionDegrades(t *testing.T) {
	details := &mockDetails{}
	details.On("GenerateDetails", mock.Anything, mock.Anything).Return(lasagnaDetails, nil).Once()
	nutrition := &mockNutrition{}
	nutrition.On("GenerateNutrition", mock.Anything, mock.Anything).
		Return(recipe.NutritionalInfo{"Calories": "650 kcal"}, nil).Once()

	o := New(details, &fakeImages{image: "data:image/png;base64,AAA"}, nutrition, testTimeouts)
	r, err := o.Generate(context.Background(), recipe.Request{DishName: "Lasagna"})
	require.NoError(t, err)
	assert.Equal(t, recipe.UnavailableNutrition(), r.NutritionalInfo)
}
