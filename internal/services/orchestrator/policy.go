package orchestrator

import (
	"context"
	"log/slog"

	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/metrics"
	"github.com/chefvision/server/internal/services/recipe"
)

// Policy decides what an adapter failure means for the whole request: either
// it is fatal and propagates, or it is replaced by a default value.
type Policy[T any] struct {
	Name    string
	Fatal   bool
	Default func() T
}

// Apply passes value through on success. On failure it returns err for a fatal
// policy, or logs the failure and returns the default.
func (p Policy[T]) Apply(ctx context.Context, value T, err error) (T, error) {
	if err == nil {
		return value, nil
	}
	if p.Fatal || p.Default == nil {
		return value, err
	}

	slog.WarnContext(ctx, "Adapter failed, using default value",
		"adapter", p.Name,
		"reason", apperrors.Classify(err, p.Name).Type,
		"error", err.Error(),
	)
	metrics.RecordAdapterDegraded(ctx, p.Name)
	return p.Default(), nil
}

var (
	detailsPolicy = Policy[*recipe.Details]{
		Name:  "details",
		Fatal: true,
	}

	imagePolicy = Policy[string]{
		Name:    "image",
		Default: func() string { return recipe.PlaceholderImage },
	}

	nutritionPolicy = Policy[recipe.NutritionalInfo]{
		Name:    "nutrition",
		Default: recipe.UnavailableNutrition,
	}
)
