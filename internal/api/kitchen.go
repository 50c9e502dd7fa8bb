package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

const healthMessage = "FridgeChef AI Server is running"

var errEmptyTranscript = errors.New("messages must contain at least one message")

// KitchenHandler handles the ingredient, recipe and chat endpoints
type KitchenHandler struct {
	kitchen service.IKitchenService
}

// NewKitchenHandler creates a new KitchenHandler instance
func NewKitchenHandler(kitchen service.IKitchenService) *KitchenHandler {
	return &KitchenHandler{kitchen: kitchen}
}

// RegisterRoutes registers the kitchen routes. guard runs in front of the
// endpoints that call the AI backend and may be nil.
func (h *KitchenHandler) RegisterRoutes(router *gin.RouterGroup, guard gin.HandlerFunc) {
	ai := router.Group("")
	if guard != nil {
		ai.Use(guard)
	}
	{
		ai.POST("/identify-ingredients", h.IdentifyIngredients)
		ai.POST("/generate-recipes", h.GenerateRecipes)
		ai.POST("/health-chat", h.HealthChat)
	}
	router.GET("/health", h.Health)
}

// IdentifyIngredients handles POST /api/identify-ingredients
func (h *KitchenHandler) IdentifyIngredients(c *gin.Context) {
	var req types.IdentifyIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Missing required field: imageData")
		return
	}

	ingredients, err := h.kitchen.IdentifyIngredients(c.Request.Context(), req.ImageData, req.ImageType)
	if err != nil {
		respondError(c, err, identifyErrors)
		return
	}

	c.JSON(http.StatusOK, types.IdentifyIngredientsResponse{Ingredients: ingredients})
}

// GenerateRecipes handles POST /api/generate-recipes
func (h *KitchenHandler) GenerateRecipes(c *gin.Context) {
	var req types.GenerateRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Missing or invalid ingredients array")
		return
	}

	recipes, err := h.kitchen.GenerateRecipes(c.Request.Context(), req.Ingredients.Names(), req.Cuisines)
	if err != nil {
		respondError(c, err, recipeErrors)
		return
	}

	c.JSON(http.StatusOK, types.GenerateRecipesResponse{Recipes: recipes})
}

// HealthChat handles POST /api/health-chat
func (h *KitchenHandler) HealthChat(c *gin.Context) {
	var req types.HealthChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedOn(err, "Ingredients", "ingredients") {
			badRequest(c, err, "Missing or invalid ingredients array")
		} else {
			badRequest(c, err, "Missing or invalid messages array")
		}
		return
	}
	if len(req.Messages) == 0 {
		badRequest(c, errEmptyTranscript, "Missing or invalid messages array")
		return
	}

	reply, err := h.kitchen.HealthChat(c.Request.Context(), req.Messages, req.Ingredients.Names())
	if err != nil {
		respondError(c, err, chatErrors)
		return
	}

	c.JSON(http.StatusOK, types.HealthChatResponse{
		Response: reply.Text,
		Recipes:  reply.Recipes,
	})
}

// Health handles GET /api/health
func (h *KitchenHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:  "ok",
		Message: healthMessage,
	})
}
