package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Category is the food group an ingredient belongs to
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryProteins   Category = "proteins"
	CategoryDairy      Category = "dairy"
	CategoryGrains     Category = "grains"
	CategoryCondiments Category = "condiments"
	CategoryOther      Category = "other"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryVegetables,
	CategoryFruits,
	CategoryProteins,
	CategoryDairy,
	CategoryGrains,
	CategoryCondiments,
	CategoryOther,
}

// ParseCategory folds any unknown or empty value to CategoryOther
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

// UnmarshalJSON normalizes the category while decoding
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string categories are not worth failing an ingredient over
		*c = CategoryOther
		return nil
	}
	*c = ParseCategory(s)
	return nil
}

// DefaultFreshnessDays is used when nothing better is known
const DefaultFreshnessDays = 7

// FreshnessDays is a non-negative shelf-life estimate. Models sometimes
// answer with a string ("5") or a float, so decoding is lenient.
type FreshnessDays int

func (f *FreshnessDays) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = clampDays(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		num, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("invalid freshness_days %q", str)
		}
		*f = clampDays(num)
		return nil
	}

	return fmt.Errorf("invalid freshness_days format")
}

func clampDays(v float64) FreshnessDays {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return FreshnessDays(math.Round(v))
}

// Freshness buckets used for display
type Freshness string

const (
	FreshnessCritical Freshness = "critical"
	FreshnessWarning  Freshness = "warning"
	FreshnessGood     Freshness = "good"
)

// Ingredient represents a single detected or user-entered ingredient
type Ingredient struct {
	Name          string         `json:"name"`
	Quantity      string         `json:"quantity,omitempty"`
	Category      Category       `json:"category"`
	FreshnessDays *FreshnessDays `json:"freshness_days,omitempty"`
}

// NewIngredient returns an ingredient with the defaults used for manual entry
func NewIngredient(name string) Ingredient {
	days := FreshnessDays(DefaultFreshnessDays)
	return Ingredient{
		Name:          strings.TrimSpace(name),
		Category:      CategoryOther,
		FreshnessDays: &days,
	}
}

// Validate checks the ingredient invariants
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("ingredient name is required")
	}
	if i.FreshnessDays != nil && *i.FreshnessDays < 0 {
		return fmt.Errorf("ingredient %q has negative freshness_days", i.Name)
	}
	return nil
}

// Normalize trims text fields and folds the category
func (i Ingredient) Normalize() Ingredient {
	i.Name = strings.TrimSpace(i.Name)
	i.Quantity = strings.TrimSpace(i.Quantity)
	i.Category = ParseCategory(string(i.Category))
	return i
}

// Freshness classifies the remaining shelf life; unknown counts as good
func (i Ingredient) Freshness() Freshness {
	if i.FreshnessDays == nil {
		return FreshnessGood
	}
	switch days := int(*i.FreshnessDays); {
	case days <= 2:
		return FreshnessCritical
	case days <= 5:
		return FreshnessWarning
	default:
		return FreshnessGood
	}
}

// GroupByCategory buckets ingredients by category, keeping their original
// indexes so callers can still edit them in place
func GroupByCategory(ingredients []Ingredient) []CategoryGroup {
	byCat := make(map[Category][]IndexedIngredient)
	for idx, ing := range ingredients {
		cat := ParseCategory(string(ing.Category))
		byCat[cat] = append(byCat[cat], IndexedIngredient{Index: idx, Ingredient: ing})
	}

	groups := make([]CategoryGroup, 0, len(byCat))
	for cat, items := range byCat {
		groups = append(groups, CategoryGroup{Category: cat, Items: items})
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Category < groups[b].Category })
	return groups
}

// IndexedIngredient pairs an ingredient with its position in the session list
type IndexedIngredient struct {
	Index      int
	Ingredient Ingredient
}

// CategoryGroup is one bucket produced by GroupByCategory
type CategoryGroup struct {
	Category Category
	Items    []IndexedIngredient
}

// IngredientInput accepts either a bare name or a full ingredient object
type IngredientInput struct {
	Ingredient
}

func (in *IngredientInput) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		in.Ingredient = Ingredient{Name: name, Category: CategoryOther}
		return nil
	}

	var ing Ingredient
	if err := json.Unmarshal(data, &ing); err != nil {
		return fmt.Errorf("ingredient must be a string or an object: %w", err)
	}
	in.Ingredient = ing
	return nil
}

// IngredientList is a request-side list of ingredients
type IngredientList []IngredientInput

// Names returns the ingredient names, skipping blanks
func (l IngredientList) Names() []string {
	names := make([]string, 0, len(l))
	for _, in := range l {
		if name := strings.TrimSpace(in.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// IngredientNames extracts names from a slice of ingredients
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if name := strings.TrimSpace(ing.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
