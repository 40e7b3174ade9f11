package recipes

import (
	"context"

	"github.com/windoze95/recipe-agent/internal/models"
)

// DefaultMaxAmount is the result count used when SearchParams.MaxAmount is unset.
const DefaultMaxAmount = 5

// Source searches a recipe provider.
type Source interface {
	FetchRecipes(ctx context.Context, params SearchParams) ([]models.Recipe, error)
}

// SearchParams holds the structured filters and the maximum number of
// recipes to return.
type SearchParams struct {
	models.SearchFilters
	MaxAmount int
}

func (p SearchParams) maxAmount() int {
	if p.MaxAmount <= 0 {
		return DefaultMaxAmount
	}
	return p.MaxAmount
}
