// Package formatter renders recipes as user-facing text.
package formatter

import "github.com/windoze95/recipe-agent/internal/models"

// Formatter renders a single recipe as text.
type Formatter interface {
	Format(recipe models.Recipe) string
}
