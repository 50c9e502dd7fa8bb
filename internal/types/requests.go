package types

// IdentifyIngredientsRequest is the body of POST /api/identify-ingredients.
// ImageData is raw base64 or a data URL.
type IdentifyIngredientsRequest struct {
	ImageData string `json:"imageData" binding:"required"`
	ImageType string `json:"imageType"`
}

type IdentifyIngredientsResponse struct {
	Ingredients []Ingredient `json:"ingredients"`
}

// GenerateRecipesRequest is the body of POST /api/generate-recipes
type GenerateRecipesRequest struct {
	Ingredients IngredientList `json:"ingredients" binding:"required"`
	Cuisines    []string       `json:"cuisines"`
}

type GenerateRecipesResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// HealthChatRequest is the body of POST /api/health-chat. The whole
// transcript is sent on every turn.
type HealthChatRequest struct {
	Messages    []ChatMessage  `json:"messages" binding:"required,dive"`
	Ingredients IngredientList `json:"ingredients" binding:"required"`
}

type HealthChatResponse struct {
	Response string   `json:"response"`
	Recipes  []Recipe `json:"recipes"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the common error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
