package testutil

import (
	"strconv"

	"github.com/windoze95/recipe-agent/internal/models"
)

// TestRecipe creates a test Recipe with realistic fields.
func TestRecipe() models.Recipe {
	return models.Recipe{
		Title: "Classic Pancakes",
		Likes: 128,
		Image: "https://img.spoonacular.com/recipes/715594-312x231.jpg",
		Ingredients: []models.Ingredient{
			{Title: "1.5 cups all-purpose flour", Image: "https://img.spoonacular.com/ingredients_100x100/flour.png"},
			{Title: "1 1/4 cups milk", Image: "https://img.spoonacular.com/ingredients_100x100/milk.png"},
			{Title: "1 egg", Image: "https://img.spoonacular.com/ingredients_100x100/egg.png"},
		},
		Instructions: []models.Instruction{
			{Step: "Mix dry ingredients."},
			{Step: "Whisk wet ingredients."},
			{Step: "Combine and cook on a griddle."},
		},
	}
}

// TestRecipes returns n distinct recipes titled "Recipe 1".."Recipe n".
func TestRecipes(n int) []models.Recipe {
	out := make([]models.Recipe, n)
	for i := range out {
		r := TestRecipe()
		r.Title = "Recipe " + strconv.Itoa(i+1)
		out[i] = r
	}
	return out
}

// TestFiltersJSON is a well-formed filter completion.
const TestFiltersJSON = `{"query":"pancakes","include_ingredients":["egg","milk"],"exclude_ingredients":[],"include_cuisines":["American"],"exclude_cuisines":[]}`

// TestCapabilityJSON is a well-formed capability completion.
const TestCapabilityJSON = `{"message":"I help you find personalized recipes to cook at home."}`
