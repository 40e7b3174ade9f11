package models

// SearchFilters is the structured form of a free-text recipe request.
type SearchFilters struct {
	Query              string   `json:"query"`
	IncludeIngredients []string `json:"include_ingredients"`
	ExcludeIngredients []string `json:"exclude_ingredients"`
	IncludeCuisines    []string `json:"include_cuisines"`
	ExcludeCuisines    []string `json:"exclude_cuisines"`
}

// Normalize replaces nil lists with empty ones so that unmentioned filters
// are always present and empty.
func (f SearchFilters) Normalize() SearchFilters {
	f.IncludeIngredients = orEmpty(f.IncludeIngredients)
	f.ExcludeIngredients = orEmpty(f.ExcludeIngredients)
	f.IncludeCuisines = orEmpty(f.IncludeCuisines)
	f.ExcludeCuisines = orEmpty(f.ExcludeCuisines)
	return f
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
