package view

import (
	"cmp"
	"slices"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// SortOrder names one of the browse orderings
type SortOrder string

const (
	SortMatch      SortOrder = "match"
	SortTime       SortOrder = "time"
	SortDifficulty SortOrder = "difficulty"
)

// SortByMatch puts recipes using the most available ingredients first
func SortByMatch(recipes []types.Recipe) []types.Recipe {
	sorted := slices.Clone(recipes)
	slices.SortStableFunc(sorted, func(a, b types.Recipe) int {
		return cmp.Compare(len(b.IngredientsUsed), len(a.IngredientsUsed))
	})
	return sorted
}

// SortByTime puts the quickest recipes first. A missing time counts as 0.
func SortByTime(recipes []types.Recipe) []types.Recipe {
	sorted := slices.Clone(recipes)
	slices.SortStableFunc(sorted, func(a, b types.Recipe) int {
		return cmp.Compare(a.CookingTime, b.CookingTime)
	})
	return sorted
}

// SortByDifficulty orders Easy, Medium, Hard with unknown values as Medium
func SortByDifficulty(recipes []types.Recipe) []types.Recipe {
	sorted := slices.Clone(recipes)
	slices.SortStableFunc(sorted, func(a, b types.Recipe) int {
		return cmp.Compare(a.Difficulty.Rank(), b.Difficulty.Rank())
	})
	return sorted
}

// Sort dispatches on order; unknown orders fall back to match
func Sort(recipes []types.Recipe, order SortOrder) []types.Recipe {
	switch order {
	case SortTime:
		return SortByTime(recipes)
	case SortDifficulty:
		return SortByDifficulty(recipes)
	default:
		return SortByMatch(recipes)
	}
}
