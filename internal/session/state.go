// Package session holds the client-side state of one FridgeChef session:
// the photo, the ingredient list the user curates, the cuisine filter, the
// recipes on screen and the chat transcript.
package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// State is owned by one caller. Every method takes the lock, so a background
// request goroutine may apply results while the UI reads.
type State struct {
	mu sync.RWMutex

	image       *types.Image
	ingredients []types.Ingredient
	cuisines    []string
	recipes     []types.Recipe
	selected    *types.Recipe
	transcript  []types.ChatMessage
	loading     bool
	lastErr     string

	// seq increases with every recipe request so that late answers to
	// superseded requests can be recognized
	seq uint64
}

func New() *State {
	return &State{}
}

// SetImage stores a new photo and forgets ingredients identified from the
// previous one
func (s *State) SetImage(img types.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = &img
	s.ingredients = nil
}

func (s *State) Image() (types.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.image == nil {
		return types.Image{}, false
	}
	return *s.image, true
}

// SetIngredients replaces the ingredient list, normalizing each entry
func (s *State) SetIngredients(ingredients []types.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = make([]types.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		s.ingredients = append(s.ingredients, ing.Normalize())
	}
}

// Ingredients returns a copy of the current list
func (s *State) Ingredients() []types.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ingredients)
}

// IngredientNames returns the names to send with recipe and chat requests
func (s *State) IngredientNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.IngredientNames(s.ingredients)
}

func (s *State) HasIngredients() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ingredients) > 0
}

// AddIngredient appends a blank ingredient with default values and returns
// its index
func (s *State) AddIngredient(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = append(s.ingredients, types.NewIngredient(name))
	return len(s.ingredients) - 1
}

func (s *State) RemoveIngredient(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.ingredients = slices.Delete(s.ingredients, index, index+1)
	return nil
}

// UpdateIngredient applies fn to the ingredient at index
func (s *State) UpdateIngredient(index int, fn func(*types.Ingredient)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return err
	}
	fn(&s.ingredients[index])
	s.ingredients[index] = s.ingredients[index].Normalize()
	return nil
}

func (s *State) checkIndex(index int) error {
	if index < 0 || index >= len(s.ingredients) {
		return fmt.Errorf("ingredient index %d out of range [0, %d)", index, len(s.ingredients))
	}
	return nil
}

// ToggleCuisine adds the cuisine to the filter or removes it if present.
// Matching ignores case. It reports whether the cuisine is now selected.
func (s *State) ToggleCuisine(cuisine string) bool {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cuisines {
		if strings.EqualFold(c, cuisine) {
			s.cuisines = slices.Delete(s.cuisines, i, i+1)
			return false
		}
	}
	s.cuisines = append(s.cuisines, cuisine)
	return true
}

// Cuisines returns the selected cuisines in selection order
func (s *State) Cuisines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cuisines)
}

// BeginRecipes starts a recipe request and returns its sequence number
func (s *State) BeginRecipes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loading = true
	s.lastErr = ""
	return s.seq
}

// CurrentSeq is the sequence number of the newest recipe request
func (s *State) CurrentSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq
}

// ApplyRecipes stores recipes for request seq. Answers to superseded
// requests are discarded and ApplyRecipes returns false.
func (s *State) ApplyRecipes(seq uint64, recipes []types.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.recipes = slices.Clone(recipes)
	s.loading = false
	return true
}

// FailRecipes records the error for request seq unless it was superseded
func (s *State) FailRecipes(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.loading = false
	s.lastErr = err.Error()
	return true
}

// AddRecipes appends recipes, as recommended from chat
func (s *State) AddRecipes(recipes []types.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append(s.recipes, recipes...)
}

func (s *State) Recipes() []types.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recipes)
}

// SelectRecipe marks the recipe shown on the detail screen
func (s *State) SelectRecipe(recipe types.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &recipe
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *State) Selected() (types.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return types.Recipe{}, false
	}
	return *s.selected, true
}

// AppendMessage adds one message to the chat transcript
func (s *State) AppendMessage(msg types.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msg)
}

// ResetTranscript replaces the transcript with the given opening messages
func (s *State) ResetTranscript(opening ...types.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = slices.Clone(opening)
}

// Transcript returns a copy of the chat so far
func (s *State) Transcript() []types.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transcript)
}

func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetError records a user-facing error; an empty string clears it
func (s *State) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

func (s *State) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Reset clears everything, including pending request sequence state. Any
// in-flight recipe answer is discarded.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = nil
	s.ingredients = nil
	s.cuisines = nil
	s.recipes = nil
	s.selected = nil
	s.transcript = nil
	s.loading = false
	s.lastErr = ""
	s.seq++
}
