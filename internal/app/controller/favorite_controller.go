package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

// AddFavorite marks a recipe as favorited by the authenticated user
// POST /api/v1/recipes/:id/favorite
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
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

	summary, err := ctrl.favoriteService.AddFavorite(userID, uint(recipeID))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		if errors.Is(err, service.ErrAlreadyFavorited) {
			apperrors.Conflict(c, apperrors.FavoriteExists, "Recipe is already in favorites")
			return
		}
		log.Error("Failed to add favorite", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add favorite")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe added to favorites",
		"recipe":  summary,
	})
}

// RemoveFavorite removes a recipe from the user's favorites
// DELETE /api/v1/recipes/:id/favorite
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
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

	if err := ctrl.favoriteService.RemoveFavorite(userID, uint(recipeID)); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			apperrors.NotFound(c, apperrors.FavoriteNotFound, "Recipe is not in favorites")
			return
		}
		log.Error("Failed to remove favorite", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe removed from favorites",
	})
}
