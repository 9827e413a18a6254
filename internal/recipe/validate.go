package recipe

import (
	"strings"

	"github.com/eatlyst/eatlyst/internal/model"
)

// Missing-field labels, in the order they are shown to the user.
const (
	MissingName         = "Recipe name"
	MissingTotalTime    = "Preparation time"
	MissingServings     = "Number of servings"
	MissingDifficulty   = "Difficulty level"
	MissingIngredients  = "At least one ingredient"
	MissingInstructions = "Instructions"
)

// Validate returns the labels of the required fields the edit is still
// missing, in display order. An empty result means the edit is publishable.
func Validate(e *model.RecipeEdit) []string {
	var missing []string

	if strings.TrimSpace(e.Name) == "" {
		missing = append(missing, MissingName)
	}
	if e.TotalTime <= 0 {
		missing = append(missing, MissingTotalTime)
	}
	if e.Servings <= 0 {
		missing = append(missing, MissingServings)
	}
	if !e.Difficulty.Valid() {
		missing = append(missing, MissingDifficulty)
	}
	if len(e.IngredientLines) == 0 {
		missing = append(missing, MissingIngredients)
	}
	if strings.TrimSpace(e.Instructions) == "" {
		missing = append(missing, MissingInstructions)
	}

	return missing
}
