package recipes

import (
	"github.com/recetas-abuela/backend/internal/recipe"
)

type listInfo struct {
	Count int `json:"count"`
}

// ListRecipesResponse is the unfiltered listing envelope. It carries no
// success field.
type ListRecipesResponse struct {
	Info    listInfo        `json:"info"`
	Results []recipe.Recipe `json:"results"`
}

type SearchRecipesResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []recipe.Recipe `json:"data"`
}

type GetRecipeResponse struct {
	Success bool          `json:"success"`
	Data    recipe.Recipe `json:"data"`
}

type CreateRecipeResponse struct {
	Message  string `json:"message"`
	RecipeID int64  `json:"idRecipe"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
