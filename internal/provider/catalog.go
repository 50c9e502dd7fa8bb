package provider

import (
	"strings"

	"github.com/pageza/fridgechef/backend/internal/types"
)

func days(n int) *types.FreshnessDays {
	d := types.FreshnessDays(n)
	return &d
}

// DemoIngredients is returned by the mock backend and by the classifier
// when its endpoint cannot be reached
func DemoIngredients() []types.Ingredient {
	return []types.Ingredient{
		{Name: "Eggs", Quantity: "6 pieces", Category: types.CategoryProteins, FreshnessDays: days(14)},
		{Name: "Milk", Quantity: "1 liter", Category: types.CategoryDairy, FreshnessDays: days(5)},
		{Name: "Tomatoes", Quantity: "4 pieces", Category: types.CategoryVegetables, FreshnessDays: days(5)},
		{Name: "Spinach", Quantity: "1 bag", Category: types.CategoryVegetables, FreshnessDays: days(3)},
		{Name: "Cheddar Cheese", Quantity: "200g", Category: types.CategoryDairy, FreshnessDays: days(21)},
		{Name: "Chicken Breast", Quantity: "500g", Category: types.CategoryProteins, FreshnessDays: days(2)},
		{Name: "Carrots", Quantity: "5 pieces", Category: types.CategoryVegetables, FreshnessDays: days(14)},
		{Name: "Lemons", Quantity: "2 pieces", Category: types.CategoryFruits, FreshnessDays: days(10)},
		{Name: "Garlic", Quantity: "1 head", Category: types.CategoryVegetables, FreshnessDays: days(30)},
		{Name: "Rice", Quantity: "1 kg", Category: types.CategoryGrains, FreshnessDays: days(365)},
	}
}

// catalogEntry is a curated recipe with its full ingredient list. The
// used/missing split is computed against the caller's ingredients.
type catalogEntry struct {
	recipe   types.Recipe
	requires []string
	// goodFor holds keywords matched against chat messages
	goodFor []string
}

var catalog = []catalogEntry{
	{
		recipe: types.Recipe{
			Name:        "Spinach and Tomato Frittata",
			Cuisine:     "Italian",
			CookingTime: 25,
			Difficulty:  types.DifficultyEasy,
			Steps: []string{
				"Preheat the oven to 190°C.",
				"Whisk the eggs with milk, salt and pepper.",
				"Wilt the spinach in an oven-safe pan with a little olive oil.",
				"Add sliced tomatoes, pour in the eggs and cook for 3 minutes.",
				"Top with cheese and bake for 12 minutes until set.",
			},
			NutritionalNotes: "High in protein and folate, a good source of iron and vitamin C.",
			HealthBenefits:   "Spinach provides magnesium that supports muscle relaxation; eggs provide steady energy.",
		},
		requires: []string{"Eggs", "Milk", "Spinach", "Tomatoes", "Cheddar Cheese", "Olive Oil"},
		goodFor:  []string{"fatigue", "energy", "back", "muscle"},
	},
	{
		recipe: types.Recipe{
			Name:        "Creamy Garlic Chicken Pasta",
			Cuisine:     "Italian",
			CookingTime: 35,
			Difficulty:  types.DifficultyMedium,
			Steps: []string{
				"Cook the pasta in salted water until al dente.",
				"Season and sear the chicken until golden, then slice.",
				"Soften minced garlic in butter, add milk and simmer until slightly thickened.",
				"Stir in cheese and spinach, then toss with the pasta and chicken.",
			},
			NutritionalNotes: "Balanced protein and carbohydrates for sustained energy.",
			HealthBenefits:   "Garlic has anti-inflammatory compounds; chicken supplies B vitamins for energy metabolism.",
		},
		requires: []string{"Chicken Breast", "Garlic", "Milk", "Spinach", "Cheddar Cheese", "Pasta", "Butter"},
		goodFor:  []string{"fatigue", "energy", "wellness"},
	},
	{
		recipe: types.Recipe{
			Name:        "Tomato and Egg Stir-Fry",
			Cuisine:     "Chinese",
			CookingTime: 15,
			Difficulty:  types.DifficultyEasy,
			Steps: []string{
				"Beat the eggs with a pinch of salt and scramble until just set, then remove.",
				"Stir-fry tomato wedges with garlic until juicy.",
				"Add a splash of soy sauce and a little sugar.",
				"Return the eggs, toss and serve over rice.",
			},
			NutritionalNotes: "Lycopene from cooked tomatoes and complete protein from eggs.",
			HealthBenefits:   "Light and easy to digest; tomatoes provide antioxidants.",
		},
		requires: []string{"Eggs", "Tomatoes", "Garlic", "Rice", "Soy Sauce"},
		goodFor:  []string{"digest", "stomach", "wellness"},
	},
	{
		recipe: types.Recipe{
			Name:        "Chicken and Cheese Quesadillas",
			Cuisine:     "Mexican",
			CookingTime: 20,
			Difficulty:  types.DifficultyEasy,
			Steps: []string{
				"Season and cook the chicken, then shred it.",
				"Fill tortillas with chicken, cheese and spinach.",
				"Toast in a dry pan for 2 to 3 minutes per side.",
				"Serve with lemon wedges.",
			},
			NutritionalNotes: "Protein-rich with calcium from cheese.",
			HealthBenefits:   "Protein and calcium support muscle and bone health.",
		},
		requires: []string{"Chicken Breast", "Cheddar Cheese", "Spinach", "Lemons", "Tortillas"},
		goodFor:  []string{"back", "muscle"},
	},
	{
		recipe: types.Recipe{
			Name:        "Lemon Garlic Chicken with Roasted Carrots",
			Cuisine:     "Mediterranean",
			CookingTime: 45,
			Difficulty:  types.DifficultyMedium,
			Steps: []string{
				"Marinate the chicken in lemon juice, garlic and olive oil for 15 minutes.",
				"Toss carrot sticks with olive oil and salt.",
				"Roast chicken and carrots at 200°C for 25 minutes.",
				"Finish with lemon zest.",
			},
			NutritionalNotes: "Lean protein with beta-carotene and vitamin C.",
			HealthBenefits:   "Vitamin C and beta-carotene support immunity; olive oil provides healthy fats.",
		},
		requires: []string{"Chicken Breast", "Lemons", "Garlic", "Carrots", "Olive Oil"},
		goodFor:  []string{"inflammation", "back", "wellness", "immune"},
	},
	{
		recipe: types.Recipe{
			Name:        "Classic French Omelette",
			Cuisine:     "French",
			CookingTime: 10,
			Difficulty:  types.DifficultyMedium,
			Steps: []string{
				"Whisk three eggs until fully combined.",
				"Melt butter over medium-low heat.",
				"Add eggs and stir constantly until softly set.",
				"Add cheese, roll the omelette and serve immediately.",
			},
			NutritionalNotes: "Protein and choline from eggs.",
			HealthBenefits:   "Eggs provide tryptophan, which the body uses to make serotonin and melatonin.",
		},
		requires: []string{"Eggs", "Butter", "Cheddar Cheese"},
		goodFor:  []string{"sleep", "stress", "anxiety"},
	},
	{
		recipe: types.Recipe{
			Name:        "Chicken Oyakodon",
			Cuisine:     "Japanese",
			CookingTime: 30,
			Difficulty:  types.DifficultyMedium,
			Steps: []string{
				"Simmer dashi, soy sauce and mirin with sliced onion.",
				"Add bite-sized chicken and cook through.",
				"Pour beaten eggs over and cover until just set.",
				"Slide over steamed rice.",
			},
			NutritionalNotes: "Warm, protein-rich comfort food.",
			HealthBenefits:   "Warm rice dishes are gentle on digestion and support restful sleep.",
		},
		requires: []string{"Chicken Breast", "Eggs", "Rice", "Onion", "Soy Sauce", "Dashi"},
		goodFor:  []string{"sleep", "digest", "stress"},
	},
	{
		recipe: types.Recipe{
			Name:        "Vegetable Bibimbap",
			Cuisine:     "Korean",
			CookingTime: 40,
			Difficulty:  types.DifficultyMedium,
			Steps: []string{
				"Cook the rice.",
				"Blanch spinach and season with sesame oil and garlic.",
				"Sauté julienned carrots briefly.",
				"Fry an egg sunny side up.",
				"Arrange vegetables and egg over rice and serve with gochujang.",
			},
			NutritionalNotes: "Fiber-rich vegetables with whole-food carbohydrates.",
			HealthBenefits:   "Varied vegetables supply fiber that supports gut health.",
		},
		requires: []string{"Rice", "Spinach", "Carrots", "Eggs", "Garlic", "Sesame Oil", "Gochujang"},
		goodFor:  []string{"digest", "gut", "wellness"},
	},
	{
		recipe: types.Recipe{
			Name:        "Spinach and Tomato Dal",
			Cuisine:     "Indian",
			CookingTime: 40,
			Difficulty:  types.DifficultyEasy,
			Steps: []string{
				"Rinse and simmer the lentils until soft.",
				"Fry garlic, cumin and turmeric in oil.",
				"Add chopped tomatoes and cook down.",
				"Stir in lentils and spinach, season and serve with rice.",
			},
			NutritionalNotes: "Plant protein and fiber from lentils.",
			HealthBenefits:   "Turmeric and garlic are anti-inflammatory; lentils help keep energy stable.",
		},
		requires: []string{"Lentils", "Spinach", "Tomatoes", "Garlic", "Rice", "Turmeric"},
		goodFor:  []string{"inflammation", "back", "fatigue", "energy"},
	},
}

// hasIngredient matches case-insensitively in either direction, so "egg"
// covers "Eggs" and "cheese" covers "Cheddar Cheese"
func hasIngredient(available []string, want string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	for _, have := range available {
		have = strings.ToLower(strings.TrimSpace(have))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return true
		}
	}
	return false
}

// forIngredients returns a copy of the recipe with ingredients partitioned
// into what the caller has and what is missing
func (e catalogEntry) forIngredients(available []string) types.Recipe {
	r := e.recipe
	r.IngredientsUsed = []string{}
	r.MissingIngredients = []string{}
	r.Steps = append([]string(nil), e.recipe.Steps...)
	for _, name := range e.requires {
		if hasIngredient(available, name) {
			r.IngredientsUsed = append(r.IngredientsUsed, name)
		} else {
			r.MissingIngredients = append(r.MissingIngredients, name)
		}
	}
	return r
}

// matchesCuisine reports whether the recipe cuisine contains any requested
// cuisine, ignoring case. No filter matches everything.
func matchesCuisine(cuisine string, filters []string) bool {
	cuisine = strings.ToLower(cuisine)
	filtered := false
	for _, f := range filters {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		filtered = true
		if strings.Contains(cuisine, f) {
			return true
		}
	}
	return !filtered
}

// CatalogRecipes filters the curated catalog by cuisine
func CatalogRecipes(ingredients, cuisines []string) []types.Recipe {
	recipes := make([]types.Recipe, 0, len(catalog))
	for _, entry := range catalog {
		if !matchesCuisine(entry.recipe.Cuisine, cuisines) {
			continue
		}
		recipes = append(recipes, entry.forIngredients(ingredients))
	}
	return recipes
}
