package view

import (
	"strings"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// Cuisines are the filter chips offered on the browse screen
var Cuisines = []string{
	"Chinese",
	"French",
	"Italian",
	"Japanese",
	"Mexican",
	"Indian",
	"Mediterranean",
	"Korean",
}

// QuickPrompts are offered while the chat holds only the greeting
var QuickPrompts = []string{
	"Lower back pain",
	"Fatigue / Low energy",
	"Digestive issues",
	"Stress / Anxiety",
	"Poor sleep",
	"General wellness",
}

const MedicalDisclaimer = "Medical Disclaimer: This assistant provides general nutritional information and should not replace professional medical advice. Consult a healthcare provider for specific health concerns."

// ShowQuickPrompts reports whether the chat is still at its greeting
func ShowQuickPrompts(transcript []types.ChatMessage) bool {
	return len(transcript) == 1
}

// ShareText renders a recipe as plain text for copying elsewhere
func ShareText(recipe types.Recipe) string {
	var sb strings.Builder
	sb.WriteString("Check out this recipe: ")
	sb.WriteString(recipe.Name)
	sb.WriteString("\n\nIngredients:\n")
	all := append(append([]string{}, recipe.IngredientsUsed...), recipe.MissingIngredients...)
	sb.WriteString(strings.Join(all, "\n"))
	sb.WriteString("\n\nMade with FridgeChef AI")
	return sb.String()
}
