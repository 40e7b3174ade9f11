package models

import (
	"github.com/windoze95/recipe-agent/internal/util"
)

// Ingredient is a single ingredient line of a recipe.
type Ingredient struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

// String renders the ingredient as a JSON object.
func (i Ingredient) String() string {
	s, err := util.SerializeToJSONString(i)
	if err != nil {
		return i.Title
	}
	return s
}

// Instruction is one step of a recipe's method.
type Instruction struct {
	Step string `json:"step"`
}

func (i Instruction) String() string {
	return i.Step
}

// Recipe is a normalized search result. Ingredients and Instructions keep the
// order in which the provider returned them.
type Recipe struct {
	Title        string
	Likes        int
	Image        string
	Ingredients  []Ingredient
	Instructions []Instruction
}

// recipeDump is the debug representation of a Recipe.
type recipeDump struct {
	Title        string   `json:"title"`
	Likes        int      `json:"likes"`
	Image        string   `json:"image"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// String renders the recipe as a JSON object for debug logs.
func (r Recipe) String() string {
	dump := recipeDump{
		Title:        r.Title,
		Likes:        r.Likes,
		Image:        r.Image,
		Ingredients:  make([]string, len(r.Ingredients)),
		Instructions: make([]string, len(r.Instructions)),
	}
	for i, ing := range r.Ingredients {
		dump.Ingredients[i] = ing.String()
	}
	for i, ins := range r.Instructions {
		dump.Instructions[i] = ins.String()
	}

	s, err := util.SerializeToJSONString(dump)
	if err != nil {
		return r.Title
	}
	return s
}
