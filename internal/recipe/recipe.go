// Package recipe folds the flat rows of the recipe join into nested entities.
package recipe

// Row is one row of the five-way join between grandmas, recipes, the
// recipe/ingredient junction, ingredients, and images. The join is inner on
// every table, so a recipe with N ingredient links and M images produces
// N×M rows.
type Row struct {
	RecipeID        int64
	Name            string
	Description     string
	CookingTime     int32
	IngredientID    int64
	IngredientName  string
	Quantity        float64
	Unit            string
	Directions      string
	Background      string
	Image           string
	GrandmaID       int64
	GrandmaName     string
	GrandmaLastname string
	GrandmaCity     string
	GrandmaProvince string
	GrandmaPhoto    string
}

type Ingredient struct {
	IDIngredient   int64   `json:"idIngredient"`
	NameIngredient string  `json:"nameIngredient"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
}

type GrandmaName struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

type Location struct {
	City     string `json:"city"`
	Province string `json:"province"`
}

type Grandma struct {
	IDGrandma   int64       `json:"idGrandma"`
	NameGrandma GrandmaName `json:"nameGrandma"`
	Location    Location    `json:"location"`
	Photo       string      `json:"photo"`
}

type Recipe struct {
	IDRecipe    int64        `json:"idRecipe"`
	NameRecipe  string       `json:"nameRecipe"`
	DescRecipe  string       `json:"descRecipe"`
	CookingTime int32        `json:"cookingTime"`
	Ingredients []Ingredient `json:"ingredients"`
	Directions  string       `json:"directions"`
	Background  string       `json:"background"`
	Images      []string     `json:"images"`
	Grandma     Grandma      `json:"grandma"`
}

// Aggregate reconstructs nested recipes from the flat row stream. Output
// order is the first-seen order of each recipe id in the stream. Ingredients
// are deduplicated by ingredient id and images by value, both keeping first
// appearance order, which collapses the multiplicity the inner join
// introduces between the two one-to-many relations.
func Aggregate(rows []Row) []Recipe {
	byID := make(map[int64]*Recipe)
	order := make([]int64, 0, len(rows))

	for _, row := range rows {
		rec, ok := byID[row.RecipeID]
		if !ok {
			rec = &Recipe{
				IDRecipe:    row.RecipeID,
				NameRecipe:  row.Name,
				DescRecipe:  row.Description,
				CookingTime: row.CookingTime,
				Ingredients: []Ingredient{},
				Directions:  row.Directions,
				Background:  row.Background,
				Images:      []string{},
				Grandma: Grandma{
					IDGrandma: row.GrandmaID,
					NameGrandma: GrandmaName{
						Name:     row.GrandmaName,
						Lastname: row.GrandmaLastname,
					},
					Location: Location{
						City:     row.GrandmaCity,
						Province: row.GrandmaProvince,
					},
					Photo: row.GrandmaPhoto,
				},
			}
			byID[row.RecipeID] = rec
			order = append(order, row.RecipeID)
		}

		if !hasIngredient(rec.Ingredients, row.IngredientID) {
			rec.Ingredients = append(rec.Ingredients, Ingredient{
				IDIngredient:   row.IngredientID,
				NameIngredient: row.IngredientName,
				Quantity:       row.Quantity,
				Unit:           row.Unit,
			})
		}

		if row.Image != "" && !hasImage(rec.Images, row.Image) {
			rec.Images = append(rec.Images, row.Image)
		}
	}

	recipes := make([]Recipe, 0, len(order))
	for _, id := range order {
		recipes = append(recipes, *byID[id])
	}
	return recipes
}

func hasIngredient(ingredients []Ingredient, id int64) bool {
	for _, ing := range ingredients {
		if ing.IDIngredient == id {
			return true
		}
	}
	return false
}

func hasImage(images []string, image string) bool {
	for _, img := range images {
		if img == image {
			return true
		}
	}
	return false
}
