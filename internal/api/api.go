// Package api sets up and starts the API server with routing and middleware.
package api

import (
	"fmt"
	"net/http"

	"github.com/recetas-abuela/backend/internal/api/middleware"
	"github.com/recetas-abuela/backend/internal/api/routes/grandmas"
	"github.com/recetas-abuela/backend/internal/api/routes/recipes"
	"github.com/recetas-abuela/backend/internal/api/routes/users"
	"github.com/recetas-abuela/backend/internal/env"

	"github.com/go-chi/chi/v5"
)

func addRoutes(router *chi.Mux) {
	// Public reads
	router.Get("/recipes", recipes.HandleListRecipes)
	router.Get("/recipes/{nameRecipe}", recipes.HandleSearchRecipes)
	router.Get("/recipe/{idRecipe}", recipes.HandleGetRecipe)
	router.Get("/grandmas", grandmas.HandleListGrandmas)
	router.Get("/grandma/{idGrandma}", grandmas.HandleGetGrandma)

	// Credential pipeline
	router.Post("/signup", users.HandleSignup)
	router.Post("/login", users.HandleLogin)
	router.Put("/logout", users.HandleLogout)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authorize)

		r.Get("/users", users.HandleListUsers)
		r.Get("/user/{idUser}", users.HandleGetUser)
		r.Post("/grandma", grandmas.HandleCreateGrandma)
		r.Put("/grandma/{id}", grandmas.HandleUpdateGrandma)
		r.Delete("/grandma/{id}", grandmas.HandleDeleteGrandma)
		r.Post("/recipes/new", recipes.HandleCreateRecipe)
	})
}

func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)

	addr := fmt.Sprintf(":%d", env.Config.Port)
	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0%s", addr))
	return http.ListenAndServe(addr, router)
}
