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

type ShoppingCartController struct {
	shoppingCartService service.ShoppingCartService
	shoppingListService service.ShoppingListService
}

func NewShoppingCartController(
	shoppingCartService service.ShoppingCartService,
	shoppingListService service.ShoppingListService,
) *ShoppingCartController {
	return &ShoppingCartController{
		shoppingCartService: shoppingCartService,
		shoppingListService: shoppingListService,
	}
}

// AddToCart puts a recipe into the authenticated user's shopping cart
// POST /api/v1/recipes/:id/shopping_cart
func (ctrl *ShoppingCartController) AddToCart(c *gin.Context) {
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

	summary, err := ctrl.shoppingCartService.AddToCart(userID, uint(recipeID))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		if errors.Is(err, service.ErrAlreadyInShoppingCart) {
			apperrors.Conflict(c, apperrors.ShoppingCartExists, "Recipe is already in the shopping cart")
			return
		}
		log.Error("Failed to add recipe to cart", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to shopping cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe added to shopping cart",
		"recipe":  summary,
	})
}

// RemoveFromCart takes a recipe out of the user's shopping cart
// DELETE /api/v1/recipes/:id/shopping_cart
func (ctrl *ShoppingCartController) RemoveFromCart(c *gin.Context) {
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

	if err := ctrl.shoppingCartService.RemoveFromCart(userID, uint(recipeID)); err != nil {
		if errors.Is(err, service.ErrShoppingCartEntryNotFound) {
			apperrors.NotFound(c, apperrors.ShoppingCartNotFound, "Recipe is not in the shopping cart")
			return
		}
		log.Error("Failed to remove recipe from cart", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe removed from shopping cart",
	})
}

// GetIngredientTotals returns the consolidated cart as JSON
// GET /api/v1/shopping_cart/ingredients
func (ctrl *ShoppingCartController) GetIngredientTotals(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	totals, err := ctrl.shoppingListService.GetIngredientTotals(userID)
	if err != nil {
		log.Error("Failed to aggregate shopping cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": totals,
		"count":       len(totals),
	})
}

// DownloadShoppingList renders the consolidated cart as a text file
// GET /api/v1/shopping_cart/download
func (ctrl *ShoppingCartController) DownloadShoppingList(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	list, err := ctrl.shoppingListService.BuildShoppingList(userID)
	if err != nil {
		log.Error("Failed to build shopping list", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping-list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}
