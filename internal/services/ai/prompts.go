package ai

import (
	"fmt"
	"strings"
)

const chefRoleSection = `<ROLE>
You are a professional chef and recipe writer. You write recipes that a home cook can follow without prior experience.
</ROLE>`

const detailsGuidelinesSection = `<GUIDELINES>
- List every ingredient with a quantity and unit, one ingredient per entry.
- Write each preparation step as one clear, actionable instruction, in order.
- Respect the dietary requirement in the request. Never include an ingredient that violates it.
- Do not number the steps; the order of the list is the order of the steps.
</GUIDELINES>`

const detailsOutputSection = `<OUTPUT_FORMAT>
Respond with only a JSON object of the form:
{"ingredients": ["..."], "steps": ["..."]}
</OUTPUT_FORMAT>`

const nutritionRoleSection = `<ROLE>
You are a nutritionist. You estimate nutritional values per serving from an ingredient list.
</ROLE>`

const nutritionOutputSection = `<OUTPUT_FORMAT>
Respond with only a JSON object with the string fields "Calories", "Protein", "Carbohydrates" and "Fat".
Include units in each value, for example "450 kcal" or "20 g".
</OUTPUT_FORMAT>`

// DishLabel joins an optional dietary modifier and the dish name, e.g. "Vegan Chili".
func DishLabel(dishName, modifier string) string {
	dishName = strings.TrimSpace(dishName)
	modifier = strings.TrimSpace(modifier)
	if modifier == "" {
		return dishName
	}
	return modifier + " " + dishName
}

// BuildDetailsPrompt is the user prompt for ingredient and step generation.
func BuildDetailsPrompt(dishName, modifier string) string {
	return fmt.Sprintf(
		"Generate a recipe for %s. Provide a detailed list of ingredients with quantities and step-by-step preparation instructions.",
		DishLabel(dishName, modifier),
	)
}

// BuildNutritionPrompt is the user prompt for the per-serving nutrition estimate.
func BuildNutritionPrompt(ingredients []string) string {
	return fmt.Sprintf(
		"Based on the following list of ingredients, provide an estimated nutritional breakdown per serving. Ingredients: %s.",
		strings.Join(ingredients, ", "),
	)
}

// BuildImagePrompt is the text-to-image prompt for the dish photo.
func BuildImagePrompt(dishName, modifier string) string {
	return fmt.Sprintf(
		"Professional food photography of %s. High resolution, realistic, appetizing, well-lit.",
		DishLabel(dishName, modifier),
	)
}

// DetailsSystemPrompt is the system instruction for recipe detail generation.
func DetailsSystemPrompt() string {
	return joinSections(chefRoleSection, detailsGuidelinesSection, detailsOutputSection)
}

// NutritionSystemPrompt is the system instruction for nutrition estimation.
func NutritionSystemPrompt() string {
	return joinSections(nutritionRoleSection, nutritionOutputSection)
}

func joinSections(sections ...string) string {
	return strings.Join(sections, "\n\n")
}
