package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngredientString(t *testing.T) {
	ing := Ingredient{Title: "2 eggs", Image: "https://img.example.com/egg.png"}
	assert.Equal(t, `{"title":"2 eggs","image":"https://img.example.com/egg.png"}`, ing.String())
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "Whisk the eggs", Instruction{Step: "Whisk the eggs"}.String())
}

func TestRecipeString(t *testing.T) {
	r := Recipe{
		Title:        "Omelette",
		Likes:        12,
		Image:        "https://img.example.com/omelette.jpg",
		Ingredients:  []Ingredient{{Title: "egg", Image: "egg.png"}},
		Instructions: []Instruction{{Step: "Whisk"}, {Step: "Fry"}},
	}

	want := `{"title":"Omelette","likes":12,"image":"https://img.example.com/omelette.jpg",` +
		`"ingredients":["{\"title\":\"egg\",\"image\":\"egg.png\"}"],"instructions":["Whisk","Fry"]}`
	assert.Equal(t, want, r.String())
}

func TestRecipeString_Empty(t *testing.T) {
	assert.Equal(t, `{"title":"","likes":0,"image":"","ingredients":[],"instructions":[]}`, Recipe{}.String())
}

func TestSearchFiltersNormalize(t *testing.T) {
	f := SearchFilters{Query: "pasta", IncludeIngredients: []string{"basil"}}.Normalize()

	assert.Equal(t, "pasta", f.Query)
	assert.Equal(t, []string{"basil"}, f.IncludeIngredients)
	assert.NotNil(t, f.ExcludeIngredients)
	assert.Empty(t, f.ExcludeIngredients)
	assert.NotNil(t, f.IncludeCuisines)
	assert.NotNil(t, f.ExcludeCuisines)
}
