package recipes

import (
	"encoding/json"
	"testing"
)

func TestCreateRecipeRequest_Missing(t *testing.T) {
	complete := `{
		"nameRecipe": "Croquetas",
		"descRecipe": "De jamón",
		"cookingTime": 45,
		"ingredients": [{"nameIngredient": "leche", "quantity": 1, "unit": "l"}],
		"directions": "Hacer bechamel",
		"background": "Receta de siempre",
		"images": ["https://example.com/croquetas.jpg"],
		"grandma": {
			"nameGrandma": {"name": "Carmen", "lastname": "García"},
			"location": {"city": "Sevilla", "province": "Sevilla"}
		}
	}`

	tests := []struct {
		name    string
		mutate  func(m map[string]json.RawMessage)
		missing bool
	}{
		{
			name:    "complete request",
			mutate:  func(m map[string]json.RawMessage) {},
			missing: false,
		},
		{
			name:    "omitted name",
			mutate:  func(m map[string]json.RawMessage) { delete(m, "nameRecipe") },
			missing: true,
		},
		{
			name:    "null name",
			mutate:  func(m map[string]json.RawMessage) { m["nameRecipe"] = json.RawMessage(`null`) },
			missing: true,
		},
		{
			name:    "empty string description",
			mutate:  func(m map[string]json.RawMessage) { m["descRecipe"] = json.RawMessage(`""`) },
			missing: true,
		},
		{
			name:    "zero cooking time",
			mutate:  func(m map[string]json.RawMessage) { m["cookingTime"] = json.RawMessage(`0`) },
			missing: true,
		},
		{
			name:    "omitted ingredients",
			mutate:  func(m map[string]json.RawMessage) { delete(m, "ingredients") },
			missing: true,
		},
		{
			name:    "empty ingredient list passes",
			mutate:  func(m map[string]json.RawMessage) { m["ingredients"] = json.RawMessage(`[]`) },
			missing: false,
		},
		{
			name:    "empty image list passes",
			mutate:  func(m map[string]json.RawMessage) { m["images"] = json.RawMessage(`[]`) },
			missing: false,
		},
		{
			name:    "omitted grandma",
			mutate:  func(m map[string]json.RawMessage) { delete(m, "grandma") },
			missing: true,
		},
		{
			name:    "omitted background",
			mutate:  func(m map[string]json.RawMessage) { delete(m, "background") },
			missing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal([]byte(complete), &fields); err != nil {
				t.Fatalf("unmarshaling base request: %v", err)
			}
			tt.mutate(fields)
			raw, err := json.Marshal(fields)
			if err != nil {
				t.Fatalf("marshaling mutated request: %v", err)
			}

			var request CreateRecipeRequest
			if err := json.Unmarshal(raw, &request); err != nil {
				t.Fatalf("unmarshaling request: %v", err)
			}
			if got := request.Missing(); got != tt.missing {
				t.Errorf("Missing() = %v, want %v", got, tt.missing)
			}
		})
	}
}
