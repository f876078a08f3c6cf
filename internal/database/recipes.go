package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/recetas-abuela/backend/internal/recipe"
)

// recipeJoinQuery is the five-way inner join behind every recipe read. A
// recipe that lacks ingredients or images produces no rows and is therefore
// invisible to the read path.
const recipeJoinQuery = `
SELECT
	r.id,
	r.name,
	r.description,
	r.cooking_time,
	i.id,
	i.name,
	ri.quantity,
	ri.unit,
	r.directions,
	r.background,
	img.image,
	g.id,
	g.name,
	g.lastname,
	COALESCE(g.city, ''),
	COALESCE(g.province, ''),
	COALESCE(g.photo, '')
FROM grandmas g
INNER JOIN recipes r ON g.id = r.grandma_id
INNER JOIN recipe_ingredients ri ON r.id = ri.recipe_id
INNER JOIN ingredients i ON ri.ingredient_id = i.id
INNER JOIN images img ON img.recipe_id = r.id`

func scanRecipeRows(rows pgx.Rows) ([]recipe.Row, error) {
	defer rows.Close()

	out := []recipe.Row{}
	for rows.Next() {
		var row recipe.Row
		err := rows.Scan(
			&row.RecipeID, &row.Name, &row.Description, &row.CookingTime,
			&row.IngredientID, &row.IngredientName, &row.Quantity, &row.Unit,
			&row.Directions, &row.Background, &row.Image,
			&row.GrandmaID, &row.GrandmaName, &row.GrandmaLastname,
			&row.GrandmaCity, &row.GrandmaProvince, &row.GrandmaPhoto)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *Database) ListRecipeRows(ctx context.Context) ([]recipe.Row, error) {
	rows, err := d.Pool.Query(ctx, recipeJoinQuery)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	return scanRecipeRows(rows)
}

// SearchRecipeRows matches the recipe name by case-insensitive substring.
func (d *Database) SearchRecipeRows(ctx context.Context, name string) ([]recipe.Row, error) {
	rows, err := d.Pool.Query(ctx,
		recipeJoinQuery+` WHERE r.name ILIKE '%' || $1 || '%'`, name)
	if err != nil {
		return nil, fmt.Errorf("querying recipes by name: %w", err)
	}
	return scanRecipeRows(rows)
}

func (d *Database) RecipeRowsByID(ctx context.Context, id int64) ([]recipe.Row, error) {
	rows, err := d.Pool.Query(ctx, recipeJoinQuery+` WHERE r.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying recipe by id: %w", err)
	}
	return scanRecipeRows(rows)
}

type IngredientParams struct {
	Name     string
	Quantity float64
	Unit     string
}

type CreateRecipeParams struct {
	Name        string
	Description string
	CookingTime int32
	Directions  string
	Background  string
	UserID      int64
	Grandma     GrandmaParams
	Ingredients []IngredientParams
	Images      []string
}

// CreateRecipe runs the full write pipeline in one transaction: grandma,
// recipe, one new ingredient plus junction row per input ingredient in
// input order, one image row per input image in input order. Ingredients
// are never reused by name; every submission inserts fresh rows. Any
// failure rolls the whole pipeline back.
func (d *Database) CreateRecipe(ctx context.Context, p CreateRecipeParams) (int64, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var grandmaID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO grandmas (name, lastname, city, province)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, '')) RETURNING id`,
		p.Grandma.Name, p.Grandma.Lastname, p.Grandma.City, p.Grandma.Province).Scan(&grandmaID)
	if err != nil {
		return 0, fmt.Errorf("inserting grandma: %w", err)
	}

	var recipeID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO recipes (name, description, cooking_time, grandma_id, directions, background, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.Name, p.Description, p.CookingTime, grandmaID, p.Directions, p.Background, p.UserID).Scan(&recipeID)
	if err != nil {
		return 0, fmt.Errorf("inserting recipe: %w", err)
	}

	for _, ing := range p.Ingredients {
		var ingredientID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO ingredients (name) VALUES ($1) RETURNING id`, ing.Name).Scan(&ingredientID)
		if err != nil {
			return 0, fmt.Errorf("inserting ingredient: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit)
			 VALUES ($1, $2, $3, $4)`,
			recipeID, ingredientID, ing.Quantity, ing.Unit)
		if err != nil {
			return 0, fmt.Errorf("inserting recipe ingredient: %w", err)
		}
	}

	for _, image := range p.Images {
		_, err = tx.Exec(ctx,
			`INSERT INTO images (recipe_id, image) VALUES ($1, $2)`, recipeID, image)
		if err != nil {
			return 0, fmt.Errorf("inserting image: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing recipe: %w", err)
	}
	return recipeID, nil
}
