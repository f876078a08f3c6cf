// Package recipes contains handlers for the recipe resource. Reads are
// public; creation runs behind the authorization gate.
package recipes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apiError "github.com/recetas-abuela/backend/internal/api/error"
	"github.com/recetas-abuela/backend/internal/api/requestid"
	"github.com/recetas-abuela/backend/internal/api/token"
	"github.com/recetas-abuela/backend/internal/database"
	"github.com/recetas-abuela/backend/internal/env"
	mJson "github.com/recetas-abuela/backend/internal/json"
	"github.com/recetas-abuela/backend/internal/recipe"
)

// maxRecipeBody caps recipe submissions, which may carry inline data: URL
// images.
const maxRecipeBody = 25 << 20

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	resp, err := json.Marshal(body)
	if err != nil {
		logger.Error("Failed to marshal response", slog.Any("error", err))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(resp); err != nil {
		logger.Error("Failed to write response", slog.Any("error", err))
	}
}

// HandleListRecipes returns every recipe as a nested entity graph.
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "Listing recipes")
	rows, err := env.Database.ListRecipeRows(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := recipe.Aggregate(rows)

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, ListRecipesResponse{
		Info:    listInfo{Count: len(results)},
		Results: results,
	})
}

// HandleSearchRecipes returns recipes whose name contains the path segment,
// case-insensitively. An empty result is reported as success=false, not as
// an error status.
func HandleSearchRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	name := chi.URLParam(r, "nameRecipe")

	env.Logger.DebugContext(ctx, "Searching recipes", slog.String("name", name))
	rows, err := env.Database.SearchRecipeRows(ctx, name)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to search recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := recipe.Aggregate(rows)
	if len(results) == 0 {
		writeJSON(w, env.Logger, http.StatusOK, messageResponse{
			Success: false,
			Message: "We couldn't find any recipe by that name",
		})
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, SearchRecipesResponse{
		Success: true,
		Count:   len(results),
		Data:    results,
	})
}

// HandleGetRecipe returns a single recipe by id.
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := strconv.ParseInt(chi.URLParam(r, "idRecipe"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Invalid recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Retrieving recipe")
	rows, err := env.Database.RecipeRowsByID(ctx, id)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := recipe.Aggregate(rows)
	if len(results) == 0 {
		writeJSON(w, env.Logger, http.StatusOK, messageResponse{
			Success: false,
			Message: "We couldn't find any recipe by that id",
		})
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, GetRecipeResponse{Success: true, Data: results[0]})
}

// HandleCreateRecipe runs the multi-table write pipeline: contributor,
// recipe, ingredients with junction rows, images, all in one transaction.
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	identity, err := token.IdentityFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No identity in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.NotAuthorized, "User not authorized", requestID)
		return
	}

	// Decode JSON
	var request CreateRecipeRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	r.Body = http.MaxBytesReader(w, r.Body, maxRecipeBody)
	decoder := json.NewDecoder(r.Body)
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	if request.Missing() {
		env.Logger.ErrorContext(ctx, "Missing required fields")
		_ = apiError.EncodeError(w, apiError.MissingFields, "Missing required fields", requestID)
		return
	}

	// Offload inline images to the object store when one is configured.
	// A failed offload keeps the submitted reference.
	images := *request.Images
	if env.Images != nil {
		stored := make([]string, 0, len(images))
		for _, img := range images {
			url, err := env.Images.StoreImage(ctx, img)
			if err != nil {
				env.Logger.ErrorContext(ctx, "Failed to store image", slog.Any("error", err))
				url = img
			}
			stored = append(stored, url)
		}
		images = stored
	}

	ingredients := make([]database.IngredientParams, 0, len(*request.Ingredients))
	for _, ing := range *request.Ingredients {
		ingredients = append(ingredients, database.IngredientParams{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}

	// Run the write pipeline
	env.Logger.DebugContext(ctx, "Creating recipe")
	recipeID, err := env.Database.CreateRecipe(ctx, database.CreateRecipeParams{
		Name:        *request.Name,
		Description: *request.Description,
		CookingTime: *request.CookingTime,
		Directions:  *request.Directions,
		Background:  *request.Background,
		UserID:      identity.UserID,
		Grandma: database.GrandmaParams{
			Name:     request.Grandma.NameGrandma.Name,
			Lastname: request.Grandma.NameGrandma.Lastname,
			City:     request.Grandma.Location.City,
			Province: request.Grandma.Location.Province,
		},
		Ingredients: ingredients,
		Images:      images,
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusCreated, CreateRecipeResponse{
		Message:  "Recipe added successfully",
		RecipeID: recipeID,
	})
}
