package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Difficulty is the effort level the model assigns to a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Rank orders difficulties for sorting. Anything unrecognized ranks as Medium.
func (d Difficulty) Rank() int {
	switch strings.ToLower(strings.TrimSpace(string(d))) {
	case "easy":
		return 1
	case "hard":
		return 3
	default:
		return 2
	}
}

// Minutes is a cooking time in minutes. Models return it as a number,
// a numeric string, or text like "30 minutes".
type Minutes int

// MaxMinutes caps decoded cooking times at one week
const MaxMinutes Minutes = 7 * 24 * 60

func clampMinutes(v float64) Minutes {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return Minutes(math.Round(math.Min(v, float64(MaxMinutes))))
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*m = clampMinutes(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*m = clampMinutes(float64(leadingInt(str)))
		return nil
	}

	if string(data) == "null" {
		*m = 0
		return nil
	}

	return fmt.Errorf("invalid cooking_time format")
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Tips holds recipe tips, which arrive either as one block of text or a list
type Tips struct {
	Text string
	List []string
}

// Empty reports whether there is nothing to show
func (t Tips) Empty() bool {
	return strings.TrimSpace(t.Text) == "" && len(t.List) == 0
}

// Lines returns the tips as a list regardless of the wire form
func (t Tips) Lines() []string {
	if len(t.List) > 0 {
		return t.List
	}
	if strings.TrimSpace(t.Text) == "" {
		return nil
	}
	return []string{t.Text}
}

func (t *Tips) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		t.Text = str
		t.List = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		t.Text = ""
		t.List = list
		return nil
	}

	if string(data) == "null" {
		*t = Tips{}
		return nil
	}

	return fmt.Errorf("invalid tips format")
}

func (t Tips) MarshalJSON() ([]byte, error) {
	if t.List != nil {
		return json.Marshal(t.List)
	}
	return json.Marshal(t.Text)
}

// Recipe is a generated recommendation. Ingredients are referenced by name.
type Recipe struct {
	Name               string     `json:"name"`
	Cuisine            string     `json:"cuisine"`
	IngredientsUsed    []string   `json:"ingredients_used"`
	MissingIngredients []string   `json:"missing_ingredients"`
	CookingTime        Minutes    `json:"cooking_time"`
	Difficulty         Difficulty `json:"difficulty"`
	Steps              []string   `json:"steps"`
	NutritionalNotes   string     `json:"nutritional_notes,omitempty"`
	HealthBenefits     string     `json:"health_benefits,omitempty"`
	Tips               *Tips      `json:"tips,omitempty"`
}

// Validate checks the minimum a recipe needs to be displayed
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}
	if r.CookingTime < 0 {
		return fmt.Errorf("recipe %q has negative cooking_time", r.Name)
	}
	return nil
}
