package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/pageza/fridgechef/backend/internal/extract"
	"github.com/pageza/fridgechef/backend/internal/types"
	"github.com/pageza/fridgechef/backend/internal/view"
)

// Color palette - ANSI 256 colors
var (
	colorAccent   = lipgloss.Color("42")
	colorMuted    = lipgloss.Color("245")
	colorError    = lipgloss.Color("196")
	colorWarning  = lipgloss.Color("214")
	colorSelected = lipgloss.Color("141")
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	selectedStyle = lipgloss.NewStyle().Foreground(colorSelected).Bold(true)
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

// painter renders styled text, or plain text when styling is off
type painter struct {
	plain bool
}

func (p painter) paint(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

func (p painter) title(s string) string   { return p.paint(titleStyle, s) }
func (p painter) muted(s string) string   { return p.paint(mutedStyle, s) }
func (p painter) errText(s string) string { return p.paint(errorStyle, s) }
func (p painter) box(s string) string     { return p.paint(boxStyle, s) }

func (p painter) freshness(ing types.Ingredient) string {
	days := "?"
	if ing.FreshnessDays != nil {
		days = fmt.Sprintf("%dd", int(*ing.FreshnessDays))
	}
	switch ing.Freshness() {
	case types.FreshnessCritical:
		return p.paint(errorStyle, days)
	case types.FreshnessWarning:
		return p.paint(warningStyle, days)
	default:
		return p.muted(days)
	}
}

func (p painter) ingredients(list []types.Ingredient) string {
	if len(list) == 0 {
		return p.muted("No ingredients yet.")
	}
	var sb strings.Builder
	for _, group := range types.GroupByCategory(list) {
		sb.WriteString(p.title(strings.ToUpper(string(group.Category))))
		sb.WriteString("\n")
		for _, item := range group.Items {
			qty := item.Ingredient.Quantity
			if qty == "" {
				qty = "-"
			}
			fmt.Fprintf(&sb, "  %2d. %s %s %s\n", item.Index+1,
				runewidth.FillRight(runewidth.Truncate(item.Ingredient.Name, 22, "…"), 22),
				runewidth.FillRight(qty, 14), p.freshness(item.Ingredient))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (p painter) cuisines(selected []string) string {
	chips := make([]string, 0, len(view.Cuisines))
	for _, c := range view.Cuisines {
		chip := c
		for _, s := range selected {
			if strings.EqualFold(s, c) {
				chip = p.paint(selectedStyle, "["+c+"]")
				break
			}
		}
		chips = append(chips, chip)
	}
	return strings.Join(chips, "  ")
}

func (p painter) recipeSummary(i int, r types.Recipe) string {
	return fmt.Sprintf("%2d. %s %s\n    %s  %s  uses %d, needs %d",
		i+1, r.Name, p.muted("("+r.Cuisine+")"),
		p.muted(fmt.Sprintf("%d min", int(r.CookingTime))), r.Difficulty,
		len(r.IngredientsUsed), len(r.MissingIngredients))
}

func (p painter) recipeDetail(r types.Recipe) string {
	var sb strings.Builder
	sb.WriteString(p.title(r.Name))
	fmt.Fprintf(&sb, "\n%s | %s | %d minutes\n", r.Cuisine, r.Difficulty, int(r.CookingTime))
	if r.NutritionalNotes != "" {
		fmt.Fprintf(&sb, "\nNutritional highlights: %s\n", r.NutritionalNotes)
	}
	if r.HealthBenefits != "" {
		fmt.Fprintf(&sb, "Health benefits: %s\n", r.HealthBenefits)
	}
	if len(r.IngredientsUsed) > 0 {
		sb.WriteString("\nIngredients you have:\n")
		for _, ing := range r.IngredientsUsed {
			fmt.Fprintf(&sb, "  - %s\n", ing)
		}
	}
	if len(r.MissingIngredients) > 0 {
		sb.WriteString("\nIngredients to buy:\n")
		for _, ing := range r.MissingIngredients {
			fmt.Fprintf(&sb, "  - %s\n", ing)
		}
	}
	if len(r.Steps) > 0 {
		sb.WriteString("\nSteps:\n")
		for i, step := range r.Steps {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
		}
	}
	if r.Tips != nil && !r.Tips.Empty() {
		sb.WriteString("\nTips:\n")
		for _, tip := range r.Tips.Lines() {
			fmt.Fprintf(&sb, "  * %s\n", tip)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// chatLine shows a message without its embedded recipe payloads
func (p painter) chatLine(msg types.ChatMessage) string {
	text := extract.StripEmbedded(msg.Content, extract.RecipeStart, extract.RecipeEnd)
	if msg.Role.Normalize() == types.RoleUser {
		return p.paint(selectedStyle, "you: ") + text
	}
	return p.title("chef: ") + text
}
