package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Create(ingredient *model.Ingredient) error
	CreateInBatches(ingredients []model.Ingredient, batchSize int) error
	FindAll(search string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ingredient *model.Ingredient) error {
	if err := r.db.Create(ingredient).Error; err != nil {
		logger.Error("Failed to create ingredient in database", err, map[string]interface{}{
			"name": ingredient.Name,
		})
		return err
	}
	return nil
}

func (r *ingredientRepository) CreateInBatches(ingredients []model.Ingredient, batchSize int) error {
	logger.Debug("Batch-inserting ingredients", map[string]interface{}{
		"count":      len(ingredients),
		"batch_size": batchSize,
	})
	return r.db.CreateInBatches(ingredients, batchSize).Error
}

func (r *ingredientRepository) FindAll(search string) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	query := r.db.Order("name ASC")
	if search != "" {
		query = query.Where("name LIKE ?", search+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		logger.Error("Failed to list ingredients", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by ids", err, map[string]interface{}{
			"ingredient_ids": ids,
		})
		return nil, err
	}
	return ingredients, nil
}
