package recipes

// IngredientInput is one ingredient line of a recipe submission.
type IngredientInput struct {
	Name     string  `json:"nameIngredient"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type GrandmaNameInput struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

type LocationInput struct {
	City     string `json:"city"`
	Province string `json:"province"`
}

// GrandmaInput is the contributor embedded in a recipe submission. It always
// inserts a fresh contributor row; submissions never reference an existing
// one.
type GrandmaInput struct {
	NameGrandma GrandmaNameInput `json:"nameGrandma"`
	Location    LocationInput    `json:"location"`
}

// CreateRecipeRequest uses pointer fields so the presence check can tell an
// absent or null key apart from a zero value.
type CreateRecipeRequest struct {
	Name        *string            `json:"nameRecipe"`
	Description *string            `json:"descRecipe"`
	CookingTime *int32             `json:"cookingTime"`
	Ingredients *[]IngredientInput `json:"ingredients"`
	Directions  *string            `json:"directions"`
	Background  *string            `json:"background"`
	Images      *[]string          `json:"images"`
	Grandma     *GrandmaInput      `json:"grandma"`
}

// Missing reports whether any required field is absent, null, an empty
// string, or a zero cooking time. A present-but-empty ingredient or image
// list passes the check.
func (r CreateRecipeRequest) Missing() bool {
	switch {
	case r.Name == nil || *r.Name == "":
		return true
	case r.Description == nil || *r.Description == "":
		return true
	case r.CookingTime == nil || *r.CookingTime == 0:
		return true
	case r.Ingredients == nil:
		return true
	case r.Directions == nil || *r.Directions == "":
		return true
	case r.Background == nil || *r.Background == "":
		return true
	case r.Images == nil:
		return true
	case r.Grandma == nil:
		return true
	}
	return false
}
