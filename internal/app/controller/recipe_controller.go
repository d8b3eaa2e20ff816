package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	recipeService service.RecipeService
}

func NewRecipeController(recipeService service.RecipeService) *RecipeController {
	return &RecipeController{
		recipeService: recipeService,
	}
}

// respondRecipeError maps the recipe service error taxonomy to HTTP
func respondRecipeError(c *gin.Context, err error, context string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, verr.Fields)
	case errors.Is(err, service.ErrRecipeNotFound):
		apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
	case errors.Is(err, service.ErrNotRecipeAuthor):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the author can modify this recipe")
	case errors.Is(err, service.ErrImageStoreUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalImageStore, "Image storage is temporarily unavailable, please retry")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListRecipes returns recipes matching the query filters
// GET /api/v1/recipes?tags=breakfast&tags=dinner&author=3&is_favorited=1&is_in_shopping_cart=1
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	viewerID := middleware.GetViewerID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := service.RecipeListFilter{
		TagSlugs: c.QueryArray("tags"),
		Limit:    limit,
		Offset:   offset,
	}

	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid author ID")
			return
		}
		id := uint(authorID)
		filter.AuthorID = &id
	}

	filter.FavoritedOnly = isTruthy(c.Query("is_favorited"))
	filter.InCartOnly = isTruthy(c.Query("is_in_shopping_cart"))

	if (filter.FavoritedOnly || filter.InCartOnly) && viewerID == nil {
		apperrors.Unauthorized(c, "Authentication required for personal filters")
		return
	}

	recipes, err := ctrl.recipeService.ListRecipes(filter, viewerID)
	if err != nil {
		log.Error("Failed to list recipes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// GetRecipe returns a single recipe
// GET /api/v1/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	recipe, err := ctrl.recipeService.GetRecipe(uint(recipeID), middleware.GetViewerID(c))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
	})
}

// CreateRecipe creates a recipe owned by the authenticated user
// POST /api/v1/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid recipe payload", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipe payload")
		return
	}

	recipe, err := ctrl.recipeService.CreateRecipe(userID, input)
	if err != nil {
		log.Warn("Recipe creation failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondRecipeError(c, err, "create recipe")
		return
	}

	log.Info("Recipe created", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipe.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}

// UpdateRecipe replaces a recipe's content; author only
// PUT /api/v1/recipes/:id
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipe payload")
		return
	}

	recipe, err := ctrl.recipeService.UpdateRecipe(userID, uint(recipeID), input)
	if err != nil {
		log.Warn("Recipe update failed", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		respondRecipeError(c, err, "update recipe")
		return
	}

	log.Info("Recipe updated", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipe.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"recipe":  recipe,
	})
}

// DeleteRecipe removes a recipe and its dependent rows; author only
// DELETE /api/v1/recipes/:id
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid recipe ID")
		return
	}

	if err := ctrl.recipeService.DeleteRecipe(userID, uint(recipeID)); err != nil {
		log.Warn("Recipe deletion failed", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		respondRecipeError(c, err, "delete recipe")
		return
	}

	log.Info("Recipe deleted", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
	})
}

// GetPopularRecipes returns the most-favorited recipes, served from cache
// GET /api/v1/recipes/popular
func (ctrl *RecipeController) GetPopularRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	recipes, err := ctrl.recipeService.GetPopularRecipes(c.Request.Context(), limit)
	if err != nil {
		log.Error("Failed to fetch popular recipes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
	})
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
