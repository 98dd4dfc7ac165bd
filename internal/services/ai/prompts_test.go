package ai

import (
	"strings"
	"testing"
)

func TestDishLabel(t *testing.T) {
	tests := []struct {
		dish     string
		modifier string
		want     string
	}{
		{"Lasagna", "", "Lasagna"},
		{"Chili", "Vegan", "Vegan Chili"},
		{"  Pad Thai ", " Gluten-Free ", "Gluten-Free Pad Thai"},
	}

	for _, tt := range tests {
		if got := DishLabel(tt.dish, tt.modifier); got != tt.want {
			t.Errorf("DishLabel(%q, %q) = %q; want %q", tt.dish, tt.modifier, got, tt.want)
		}
	}
}

func TestBuildDetailsPrompt(t *testing.T) {
	got := BuildDetailsPrompt("Chili", "Vegan")
	want := "Generate a recipe for Vegan Chili. Provide a detailed list of ingredients with quantities and step-by-step preparation instructions."
	if got != want {
		t.Errorf("BuildDetailsPrompt() = %q; want %q", got, want)
	}
}

func TestBuildNutritionPrompt(t *testing.T) {
	got := BuildNutritionPrompt([]string{"2 cups beans", "1 onion"})
	want := "Based on the following list of ingredients, provide an estimated nutritional breakdown per serving. Ingredients: 2 cups beans, 1 onion."
	if got != want {
		t.Errorf("BuildNutritionPrompt() = %q; want %q", got, want)
	}
}

func TestBuildImagePrompt(t *testing.T) {
	got := BuildImagePrompt("Lasagna", "")
	want := "Professional food photography of Lasagna. High resolution, realistic, appetizing, well-lit."
	if got != want {
		t.Errorf("BuildImagePrompt() = %q; want %q", got, want)
	}
}

func TestSystemPrompts(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		contains []string
	}{
		{
			name:     "details",
			prompt:   DetailsSystemPrompt(),
			contains: []string{"<ROLE>", "<GUIDELINES>", "<OUTPUT_FORMAT>", "ingredients", "steps"},
		},
		{
			name:     "nutrition",
			prompt:   NutritionSystemPrompt(),
			contains: []string{"<ROLE>", "<OUTPUT_FORMAT>", "Calories", "Protein", "Carbohydrates", "Fat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				if !strings.Contains(tt.prompt, s) {
					t.Errorf("prompt missing %q", s)
				}
			}
		})
	}
}
