// Package routes defines HTTP route constants for the service.
package routes

const (
	// Recipes
	APIRecipes    = "/api/recipes"
	APIRecipeByID = "/api/recipes/{id}"

	// Draft slot of the authenticated user
	APIDraft = "/api/draft"

	// Auth
	ClerkWebhook = "/webhooks/clerk"

	// Ops
	Healthz = "/healthz"
)
