package provider

import (
	"fmt"
	"strings"

	"github.com/pageza/fridgechef/backend/internal/extract"
)

// Token budgets per operation
const (
	identifyMaxTokens = 2000
	recipesMaxTokens  = 4000
	chatMaxTokens     = 3000
)

// RecipeCount is how many recipes the model is asked for
const RecipeCount = 5

const identifyPrompt = `Analyze this image and identify all food ingredients visible. For each ingredient, provide:
- name: the ingredient name
- quantity: estimated amount (e.g., "2 pieces", "1 cup", "500g")
- category: one of [vegetables, fruits, proteins, dairy, grains, condiments, other]
- freshness_days: estimated days until it goes bad (number)

Return ONLY a JSON array of ingredients, no other text. Format:
[{"name": "...", "quantity": "...", "category": "...", "freshness_days": ...}]`

func recipePrompt(ingredients, cuisines []string) string {
	cuisineLine := "Include diverse cuisines."
	if len(cuisines) > 0 {
		cuisineLine = fmt.Sprintf("Focus on these cuisines: %s.", strings.Join(cuisines, ", "))
	}

	return fmt.Sprintf(`I have these ingredients: %s

%s

Generate %d recipe recommendations. For each recipe, provide:
- name: dish name
- cuisine: cuisine type
- ingredients_used: array of my ingredients used
- missing_ingredients: array of ingredients I need to buy
- cooking_time: time in minutes (number)
- difficulty: "Easy", "Medium", or "Hard"
- steps: array of cooking instructions
- nutritional_notes: brief health benefits

Return ONLY a JSON array of recipes, no other text. Format:
[{"name": "...", "cuisine": "...", "ingredients_used": [...], "missing_ingredients": [...], "cooking_time": ..., "difficulty": "...", "steps": [...], "nutritional_notes": "..."}]`,
		strings.Join(ingredients, ", "), cuisineLine, RecipeCount)
}

func chatSystemPrompt(ingredients []string) string {
	return fmt.Sprintf(`You are a therapeutic cooking assistant specializing in evidence-based nutritional recommendations.

Available ingredients: %s

Your role:
- Recommend recipes that address the user's health concerns using their available ingredients
- Explain the therapeutic benefits of ingredients (e.g., anti-inflammatory properties, vitamins, minerals)
- Provide practical, evidence-based nutritional advice
- When recommending recipes, include: name, ingredients (marking which they have vs need to buy), steps, cooking time, and specific health benefits
- Be empathetic and supportive while staying scientifically accurate
- Include medical disclaimer when appropriate

Format recipe recommendations as embedded JSON objects in your response like this:
%s
{"name": "...", "ingredients_used": [...], "missing_ingredients": [...], "steps": [...], "cooking_time": ..., "difficulty": "...", "health_benefits": "..."}
%s

Keep responses conversational and helpful.`,
		strings.Join(ingredients, ", "), extract.RecipeStart, extract.RecipeEnd)
}
