package recipe

import (
	"reflect"
	"testing"
)

// joinRows builds the cross product the inner join produces for one recipe:
// one row per (ingredient, image) pair.
func joinRows(recipeID int64, ingredients []Ingredient, images []string) []Row {
	rows := make([]Row, 0, len(ingredients)*len(images))
	for _, img := range images {
		for _, ing := range ingredients {
			rows = append(rows, Row{
				RecipeID:        recipeID,
				Name:            "Paella",
				Description:     "Sunday rice",
				CookingTime:     90,
				IngredientID:    ing.IDIngredient,
				IngredientName:  ing.NameIngredient,
				Quantity:        ing.Quantity,
				Unit:            ing.Unit,
				Directions:      "Cook it slowly",
				Background:      "From Valencia",
				Image:           img,
				GrandmaID:       3,
				GrandmaName:     "Carmen",
				GrandmaLastname: "García",
				GrandmaCity:     "Valencia",
				GrandmaProvince: "Valencia",
				GrandmaPhoto:    "carmen.jpg",
			})
		}
	}
	return rows
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)
	if len(got) != 0 {
		t.Errorf("Aggregate(nil) returned %d recipes, want 0", len(got))
	}
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	ing := []Ingredient{{IDIngredient: 1, NameIngredient: "rice", Quantity: 500, Unit: "g"}}
	imgs := []string{"a.jpg"}

	// Interleave rows of three recipes; ids are deliberately unsorted.
	var rows []Row
	for _, id := range []int64{9, 2, 5, 2, 9, 5} {
		rows = append(rows, joinRows(id, ing, imgs)...)
	}

	got := Aggregate(rows)
	var order []int64
	for _, r := range got {
		order = append(order, r.IDRecipe)
	}
	want := []int64{9, 2, 5}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("output order = %v, want first-seen order %v", order, want)
	}
}

func TestAggregate_CrossProductCollapses(t *testing.T) {
	ingredients := []Ingredient{
		{IDIngredient: 1, NameIngredient: "rice", Quantity: 500, Unit: "g"},
		{IDIngredient: 2, NameIngredient: "saffron", Quantity: 1, Unit: "pinch"},
	}
	images := []string{"a.jpg", "b.jpg", "c.jpg"}

	rows := joinRows(7, ingredients, images)
	if len(rows) != 6 {
		t.Fatalf("join rows = %d, want 6 (2 ingredients × 3 images)", len(rows))
	}

	got := Aggregate(rows)
	if len(got) != 1 {
		t.Fatalf("recipes = %d, want 1", len(got))
	}

	if !reflect.DeepEqual(got[0].Ingredients, ingredients) {
		t.Errorf("ingredients = %v, want %v (deduplicated by id, input order)", got[0].Ingredients, ingredients)
	}
	if !reflect.DeepEqual(got[0].Images, images) {
		t.Errorf("images = %v, want %v", got[0].Images, images)
	}
}

func TestAggregate_ImageDedupPreservesFirstSeenOrder(t *testing.T) {
	ing := []Ingredient{{IDIngredient: 1, NameIngredient: "rice", Quantity: 500, Unit: "g"}}

	rows := append(joinRows(1, ing, []string{"b.jpg", "a.jpg"}),
		joinRows(1, ing, []string{"a.jpg", "b.jpg"})...)

	got := Aggregate(rows)
	if len(got) != 1 {
		t.Fatalf("recipes = %d, want 1", len(got))
	}
	want := []string{"b.jpg", "a.jpg"}
	if !reflect.DeepEqual(got[0].Images, want) {
		t.Errorf("images = %v, want %v", got[0].Images, want)
	}
}

func TestAggregate_ScalarsFromFirstRow(t *testing.T) {
	rows := joinRows(4, []Ingredient{{IDIngredient: 8, NameIngredient: "flour", Quantity: 200, Unit: "g"}}, []string{"x.jpg"})
	// A later row with diverging scalars must not overwrite the first sight.
	diverged := rows[0]
	diverged.Name = "Other name"
	diverged.GrandmaCity = "Madrid"
	rows = append(rows, diverged)

	got := Aggregate(rows)
	if got[0].NameRecipe != "Paella" {
		t.Errorf("NameRecipe = %q, want %q", got[0].NameRecipe, "Paella")
	}
	if got[0].Grandma.Location.City != "Valencia" {
		t.Errorf("grandma city = %q, want %q", got[0].Grandma.Location.City, "Valencia")
	}
	if got[0].Grandma.NameGrandma.Lastname != "García" {
		t.Errorf("grandma lastname = %q, want %q", got[0].Grandma.NameGrandma.Lastname, "García")
	}
}

func TestAggregate_EmptyImageSkipped(t *testing.T) {
	rows := joinRows(2, []Ingredient{{IDIngredient: 1, NameIngredient: "rice"}}, []string{""})
	got := Aggregate(rows)
	if len(got[0].Images) != 0 {
		t.Errorf("images = %v, want empty (blank image values are dropped)", got[0].Images)
	}
}
