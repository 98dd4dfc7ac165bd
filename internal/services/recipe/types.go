package recipe

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	apperrors "github.com/chefvision/server/internal/errors"
)

// PlaceholderImage is shown when no dish photo could be generated.
const PlaceholderImage = "/placeholder.jpg"

// NutritionUnavailable marks a nutrition value that could not be estimated.
const NutritionUnavailable = "N/A"

// Required nutrition keys, in display order.
const (
	NutritionCalories      = "Calories"
	NutritionProtein       = "Protein"
	NutritionCarbohydrates = "Carbohydrates"
	NutritionFat           = "Fat"
)

var requiredNutritionKeys = []string{
	NutritionCalories,
	NutritionProtein,
	NutritionCarbohydrates,
	NutritionFat,
}

// Request is what the user asked for.
type Request struct {
	DishName        string `json:"dishName"`
	DietaryModifier string `json:"dietaryModifier"`
}

// Normalize trims both fields.
func (r Request) Normalize() Request {
	return Request{
		DishName:        strings.TrimSpace(r.DishName),
		DietaryModifier: strings.TrimSpace(r.DietaryModifier),
	}
}

// Details is the ingredient list and preparation steps produced by the text model.
type Details struct {
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// Clean drops blank entries and trims the rest.
func (d *Details) Clean() {
	d.Ingredients = cleanLines(d.Ingredients)
	d.Steps = cleanLines(d.Steps)
}

// Validate reports a shape error when either list is empty.
func (d *Details) Validate() error {
	if d == nil {
		return apperrors.NewUpstreamShapeError("recipe details missing", "INVALID_RECIPE_DETAILS")
	}
	if len(d.Ingredients) == 0 {
		return apperrors.NewUpstreamShapeError("recipe details have no ingredients", "INVALID_RECIPE_DETAILS")
	}
	if len(d.Steps) == 0 {
		return apperrors.NewUpstreamShapeError("recipe details have no steps", "INVALID_RECIPE_DETAILS")
	}
	return nil
}

// NutritionalInfo maps a nutrient label to a free-form value such as "450 kcal".
type NutritionalInfo map[string]string

// UnavailableNutrition returns a fresh mapping with every required key set to N/A.
func UnavailableNutrition() NutritionalInfo {
	info := make(NutritionalInfo, len(requiredNutritionKeys))
	for _, key := range requiredNutritionKeys {
		info[key] = NutritionUnavailable
	}
	return info
}

// RequiredNutritionKeys returns the keys every NutritionalInfo must carry.
func RequiredNutritionKeys() []string {
	return append([]string(nil), requiredNutritionKeys...)
}

// Validate reports a shape error when a required key is missing or blank.
func (n NutritionalInfo) Validate() error {
	for _, key := range requiredNutritionKeys {
		if strings.TrimSpace(n[key]) == "" {
			return apperrors.NewUpstreamShapeError("nutrition is missing "+key, "INVALID_NUTRITION")
		}
	}
	return nil
}

// Keys returns the required keys first, then any extras sorted.
func (n NutritionalInfo) Keys() []string {
	keys := make([]string, 0, len(n))
	seen := make(map[string]bool, len(requiredNutritionKeys))
	for _, key := range requiredNutritionKeys {
		if _, ok := n[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var extras []string
	for key := range n {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return append(keys, extras...)
}

// MarshalJSON writes the object in Keys order so clients render nutrients in
// a stable sequence.
func (n NutritionalInfo) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range n.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(n[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Recipe is the assembled result returned to the client.
type Recipe struct {
	Name            string          `json:"name"`
	Modifier        string          `json:"modifier"`
	ImageURL        string          `json:"imageUrl"`
	Ingredients     []string        `json:"ingredients"`
	Steps           []string        `json:"steps"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
}

// NewRecipe assembles a Recipe. Details must be valid; an empty image or a nil
// nutrition map falls back to the placeholder and N/A values.
func NewRecipe(req Request, details *Details, image string, nutrition NutritionalInfo) (*Recipe, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if image == "" {
		image = PlaceholderImage
	}
	if nutrition == nil {
		nutrition = UnavailableNutrition()
	}
	req = req.Normalize()
	return &Recipe{
		Name:            req.DishName,
		Modifier:        req.DietaryModifier,
		ImageURL:        image,
		Ingredients:     details.Ingredients,
		Steps:           details.Steps,
		NutritionalInfo: nutrition,
	}, nil
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
