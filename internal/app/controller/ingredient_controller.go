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

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{
		ingredientService: ingredientService,
	}
}

// ListIngredients returns the ingredient catalog, optionally filtered by a
// name prefix
// GET /api/v1/ingredients?name=flo
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	search := c.Query("name")

	ingredients, err := ctrl.ingredientService.ListIngredients(search)
	if err != nil {
		log.Error("Failed to list ingredients", err, map[string]interface{}{
			"search": search,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredients": ingredients,
		"count":       len(ingredients),
	})
}

// GetIngredient returns a single catalog ingredient
// GET /api/v1/ingredients/:id
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ingredientID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ingredient ID")
		return
	}

	ingredient, err := ctrl.ingredientService.GetIngredient(uint(ingredientID))
	if err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			apperrors.NotFound(c, apperrors.IngredientNotFound, "Ingredient not found")
			return
		}
		log.Error("Failed to fetch ingredient", err, map[string]interface{}{
			"ingredient_id": ingredientID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingredient": ingredient,
	})
}
