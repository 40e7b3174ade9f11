package formatter

import (
	"fmt"
	"strings"

	"github.com/windoze95/recipe-agent/internal/models"
)

// Markdown renders recipes as Markdown: title heading, likes, hero image,
// an ingredient table and numbered steps.
type Markdown struct{}

// NewMarkdown returns a Markdown formatter.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Format implements Formatter.
func (Markdown) Format(recipe models.Recipe) string {
	rows := make([]string, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		rows[i] = fmt.Sprintf("| %s | ![%s](%s) |", ing.Title, ing.Title, ing.Image)
	}
	table := "\n| Ingredient | Image |\n|------------|-------|\n" + strings.Join(rows, "\n") + "\n"

	steps := make([]string, len(recipe.Instructions))
	for i, ins := range recipe.Instructions {
		steps[i] = fmt.Sprintf("%d. %s", i+1, ins.Step)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n### %s\n\n", recipe.Title)
	fmt.Fprintf(&sb, "Likes: %d\n\n", recipe.Likes)
	fmt.Fprintf(&sb, "![Recipe Image](%s)\n\n", recipe.Image)
	sb.WriteString("##### Ingredients\n")
	sb.WriteString(table)
	sb.WriteString("\n\n##### Steps\n")
	sb.WriteString(strings.Join(steps, "\n"))
	sb.WriteString("\n")
	return sb.String()
}
