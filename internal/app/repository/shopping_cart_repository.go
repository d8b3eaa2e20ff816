package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// IngredientTotal is one consolidated shopping-list line: the summed amount of
// a single catalog ingredient across every recipe in the cart. Grouping is by
// ingredient id, so two distinct catalog rows are never conflated even when
// they share a name.
type IngredientTotal struct {
	IngredientID    uint   `json:"ingredient_id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

type ShoppingCartRepository interface {
	Create(entry *model.ShoppingCartEntry) error
	FindByUserAndRecipe(userID, recipeID uint) (*model.ShoppingCartEntry, error)
	Exists(userID, recipeID uint) (bool, error)
	FindRecipeIDsByUser(userID uint) ([]uint, error)
	Delete(userID, recipeID uint) error
	SumIngredientsByUser(userID uint) ([]IngredientTotal, error)
}

type shoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{db: db}
}

func (r *shoppingCartRepository) Create(entry *model.ShoppingCartEntry) error {
	logger.Debug("Creating shopping cart entry in database", map[string]interface{}{
		"user_id":   entry.UserID,
		"recipe_id": entry.RecipeID,
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create shopping cart entry in database", err, map[string]interface{}{
			"user_id":   entry.UserID,
			"recipe_id": entry.RecipeID,
		})
		return err
	}
	return nil
}

func (r *shoppingCartRepository) FindByUserAndRecipe(userID, recipeID uint) (*model.ShoppingCartEntry, error) {
	var entry model.ShoppingCartEntry
	err := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *shoppingCartRepository) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *shoppingCartRepository) FindRecipeIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.ShoppingCartEntry{}).
		Where("user_id = ?", userID).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *shoppingCartRepository) Delete(userID, recipeID uint) error {
	logger.Debug("Deleting shopping cart entry from database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if err := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.ShoppingCartEntry{}).Error; err != nil {
		logger.Error("Failed to delete shopping cart entry from database", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}
	return nil
}

// SumIngredientsByUser aggregates ingredient amounts over every recipe in the
// user's cart, one row per ingredient, ordered by ingredient name. Pure read.
func (r *shoppingCartRepository) SumIngredientsByUser(userID uint) ([]IngredientTotal, error) {
	logger.Debug("Aggregating cart ingredients", map[string]interface{}{
		"user_id": userID,
	})

	cartRecipes := r.db.Table("shopping_cart_entries").
		Select("shopping_cart_entries.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID)

	var totals []IngredientTotal
	err := r.db.Table("recipe_ingredients").
		Select("recipe_ingredients.ingredient_id AS ingredient_id, " +
			"ingredients.name AS name, " +
			"ingredients.measurement_unit AS measurement_unit, " +
			"SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", cartRecipes).
		Group("recipe_ingredients.ingredient_id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&totals).Error
	if err != nil {
		logger.Error("Failed to aggregate cart ingredients", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart ingredients aggregated", map[string]interface{}{
		"user_id": userID,
		"lines":   len(totals),
	})
	return totals, nil
}
