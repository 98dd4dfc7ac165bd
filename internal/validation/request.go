package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/services/recipe"
)

// Input limits for a recipe request.
const (
	MaxDishNameLength = 200
	MaxModifierLength = 100
)

// ValidateRequest checks a recipe request before any upstream call is made.
func ValidateRequest(req recipe.Request) error {
	req = req.Normalize()

	if req.DishName == "" {
		return apperrors.NewValidationError(
			"Dish name is required",
			"DISH_NAME_REQUIRED",
			"Enter the name of the dish you want to cook.",
		)
	}
	if utf8.RuneCountInString(req.DishName) > MaxDishNameLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("Dish name must be at most %d characters", MaxDishNameLength),
			"DISH_NAME_TOO_LONG",
			"Shorten the dish name.",
		)
	}
	if utf8.RuneCountInString(req.DietaryModifier) > MaxModifierLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("Dietary modifier must be at most %d characters", MaxModifierLength),
			"MODIFIER_TOO_LONG",
			"Use a short dietary label such as Vegan or Gluten-Free.",
		)
	}
	if containsControl(req.DishName) {
		return apperrors.NewValidationError(
			"Dish name contains invalid characters",
			"INVALID_CHARACTERS",
			"Remove line breaks and control characters.",
		)
	}
	if containsControl(req.DietaryModifier) {
		return apperrors.NewValidationError(
			"Dietary modifier contains invalid characters",
			"INVALID_MODIFIER_CHARACTERS",
			"Remove line breaks and control characters.",
		)
	}
	return nil
}

func containsControl(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return r < 0x20 || r == 0x7f
	}) >= 0
}
