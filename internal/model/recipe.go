// Package model defines core data structures and types for the recipe service.
package model

import (
	"strings"
	"time"
)

type RecipeID string

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is a published recipe record as stored remotely. ID and CreatedAt
// are assigned by the store on creation; AuthorID and AuthorName come from
// the identity provider at publication time, never from the client.
type Recipe struct {
	ID RecipeID `json:"id,omitempty"`

	Name            string       `json:"name"`
	TotalTime       int          `json:"totalTime"`
	Servings        int          `json:"servings"`
	Difficulty      Difficulty   `json:"difficulty"`
	IngredientLines []Ingredient `json:"ingredientLines"`
	Instructions    string       `json:"instructions"`
	Category        string       `json:"category"`

	// Photo holds the locally selected image (a data URL); PhotoURL is the
	// durable location after upload.
	Photo    string `json:"photo,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`

	AuthorID   UserID `json:"authorId"`
	AuthorName string `json:"authorName"`

	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`
}

// RecipeEdit is the mutable in-progress editing buffer. Identity stays empty
// until the store assigns one on first successful creation.
type RecipeEdit struct {
	ID RecipeID `json:"id,omitempty"`

	Name            string       `json:"name"`
	TotalTime       int          `json:"totalTime"`
	Servings        int          `json:"servings"`
	Difficulty      Difficulty   `json:"difficulty"`
	IngredientLines []Ingredient `json:"ingredientLines"`
	Instructions    string       `json:"instructions"`
	Category        string       `json:"category"`

	Photo string `json:"photo,omitempty"`
}

// HasContent reports whether the edit is worth autosaving: a non-blank name
// or instructions, at least one ingredient line, or a selected photo.
func (e *RecipeEdit) HasContent() bool {
	return strings.TrimSpace(e.Name) != "" ||
		strings.TrimSpace(e.Instructions) != "" ||
		len(e.IngredientLines) > 0 ||
		e.Photo != ""
}

// Clone returns a deep copy of the edit. Ingredient lines are copied so a
// snapshot taken mid-edit never aliases the live buffer.
func (e *RecipeEdit) Clone() RecipeEdit {
	out := *e
	if e.IngredientLines != nil {
		out.IngredientLines = make([]Ingredient, len(e.IngredientLines))
		copy(out.IngredientLines, e.IngredientLines)
	}
	return out
}
