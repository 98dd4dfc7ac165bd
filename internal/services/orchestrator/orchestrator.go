// Package orchestrator turns one recipe request into a complete Recipe by
// coordinating the details, image and nutrition adapters.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/chefvision/server/internal/config"
	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/metrics"
	"github.com/chefvision/server/internal/services/ai"
	"github.com/chefvision/server/internal/services/image"
	"github.com/chefvision/server/internal/services/nutrition"
	"github.com/chefvision/server/internal/services/recipe"
	"github.com/chefvision/server/internal/telemetry"
	"github.com/chefvision/server/internal/validation"
)

// UserFacingError is the message shown when a recipe cannot be produced.
const UserFacingError = "There was an error generating your recipe. Please try again."

// errEmptyImage is returned when a generator reports success without an image.
var errEmptyImage = errors.New("image generator returned an empty image")

type Orchestrator struct {
	details   recipe.DetailsProvider
	images    image.Generator
	nutrition nutrition.Provider
	timeouts  config.OrchestratorConfig
}

func New(details recipe.DetailsProvider, images image.Generator, nutrition nutrition.Provider, timeouts config.OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		details:   details,
		images:    images,
		nutrition: nutrition,
		timeouts:  timeouts,
	}
}

// Generate validates req, then fetches details and image concurrently, then
// nutrition from the generated ingredients. Only a details failure fails the
// request; image and nutrition failures degrade to defaults.
func (o *Orchestrator) Generate(ctx context.Context, req recipe.Request) (*recipe.Recipe, error) {
	if err := validation.ValidateRequest(req); err != nil {
		return nil, err
	}
	req = req.Normalize()

	start := time.Now()
	ctx, span := telemetry.Tracer("orchestrator").Start(ctx, "recipe.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("recipe.dish", req.DishName),
		attribute.String("recipe.modifier", req.DietaryModifier),
	)

	r, err := o.generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRecipeGeneration(ctx, "failed", start)
		slog.ErrorContext(ctx, "Recipe generation failed",
			"dish", req.DishName,
			"modifier", req.DietaryModifier,
			"error", err.Error(),
		)
		return nil, apperrors.NewRecipeGenerationError(UserFacingError, "RECIPE_GENERATION_FAILED", err)
	}

	status := "success"
	if r.ImageURL == recipe.PlaceholderImage || isUnavailable(r.NutritionalInfo) {
		status = "degraded"
	}
	span.SetAttributes(attribute.String("recipe.status", status))
	metrics.RecordRecipeGeneration(ctx, status, start)
	slog.InfoContext(ctx, "Recipe generated",
		"dish", req.DishName,
		"status", status,
		"ingredients", len(r.Ingredients),
		"steps", len(r.Steps),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return r, nil
}

func (o *Orchestrator) generate(ctx context.Context, req recipe.Request) (*recipe.Recipe, error) {
	var (
		details  *recipe.Details
		imageURL string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := o.fetchDetails(gctx, req)
		if d, err = detailsPolicy.Apply(gctx, d, err); err != nil {
			return err
		}
		details = d
		return nil
	})
	g.Go(func() error {
		img, err := o.fetchImage(gctx, req)
		if err != nil && gctx.Err() != nil {
			// The group was cancelled by a details failure; nothing will use the image.
			return nil
		}
		imageURL, _ = imagePolicy.Apply(gctx, img, err)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	info, err := o.fetchNutrition(ctx, details.Ingredients)
	info, _ = nutritionPolicy.Apply(ctx, info, err)

	return recipe.NewRecipe(req, details, imageURL, info)
}

func (o *Orchestrator) fetchDetails(ctx context.Context, req recipe.Request) (*recipe.Details, error) {
	ctx, cancel := withTimeout(ctx, o.timeouts.DetailsTimeout)
	defer cancel()
	ctx, span := startStep(ctx, "recipe.details")
	defer span.End()

	details, err := o.details.GenerateDetails(ctx, req)
	if err == nil {
		err = details.Validate()
	}
	endStep(span, err)
	return details, err
}

func (o *Orchestrator) fetchImage(ctx context.Context, req recipe.Request) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeouts.ImageTimeout)
	defer cancel()
	ctx, span := startStep(ctx, "recipe.image")
	defer span.End()

	img, err := o.images.GenerateImage(ctx, ai.BuildImagePrompt(req.DishName, req.DietaryModifier))
	if err == nil && img == "" {
		err = errEmptyImage
	}
	endStep(span, err)
	return img, err
}

func (o *Orchestrator) fetchNutrition(ctx context.Context, ingredients []string) (recipe.NutritionalInfo, error) {
	ctx, cancel := withTimeout(ctx, o.timeouts.NutritionTimeout)
	defer cancel()
	ctx, span := startStep(ctx, "recipe.nutrition")
	defer span.End()

	info, err := o.nutrition.GenerateNutrition(ctx, ingredients)
	if err == nil {
		err = info.Validate()
	}
	endStep(span, err)
	return info, err
}

func startStep(ctx context.Context, name string) (context.Context, trace.Span) {
	return telemetry.Tracer("orchestrator").Start(ctx, name)
}

func endStep(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func isUnavailable(info recipe.NutritionalInfo) bool {
	for _, key := range recipe.RequiredNutritionKeys() {
		if info[key] != recipe.NutritionUnavailable {
			return false
		}
	}
	return true
}
