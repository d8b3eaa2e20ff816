package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// recipeToggle is the shared add/remove algorithm over a uniquely-keyed
// (user, recipe) membership row. Favorites and the shopping cart run the same
// code against different backing stores. The existence pre-check only buys a
// friendlier error; the store's unique index decides races, and a duplicate-key
// failure at insert time maps to the same conflict sentinel.
type recipeToggle struct {
	label        string
	recipeRepo   repository.RecipeRepository
	exists       func(userID, recipeID uint) (bool, error)
	create       func(userID, recipeID uint) error
	remove       func(userID, recipeID uint) error
	errDuplicate error
	errNotFound  error
}

func (t *recipeToggle) add(userID, recipeID uint) (*RecipeSummary, error) {
	logger.Info("Adding recipe membership", map[string]interface{}{
		"kind":      t.label,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	recipe, err := t.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add membership: recipe not found", map[string]interface{}{
				"kind":      t.label,
				"recipe_id": recipeID,
			})
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	taken, err := t.exists(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if taken {
		logger.Warn("Membership already exists", map[string]interface{}{
			"kind":      t.label,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, t.errDuplicate
	}

	if err := t.create(userID, recipeID); err != nil {
		if isDuplicateKey(err) {
			// Lost a race with a concurrent add; the unique index held
			return nil, t.errDuplicate
		}
		logger.Error("Failed to create membership", err, map[string]interface{}{
			"kind":      t.label,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return nil, err
	}

	logger.Info("Recipe membership added", map[string]interface{}{
		"kind":      t.label,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	summary := newRecipeSummary(recipe)
	return &summary, nil
}

func (t *recipeToggle) removeMembership(userID, recipeID uint) error {
	logger.Info("Removing recipe membership", map[string]interface{}{
		"kind":      t.label,
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	taken, err := t.exists(userID, recipeID)
	if err != nil {
		return err
	}
	if !taken {
		logger.Warn("Membership not found for removal", map[string]interface{}{
			"kind":      t.label,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return t.errNotFound
	}

	if err := t.remove(userID, recipeID); err != nil {
		logger.Error("Failed to delete membership", err, map[string]interface{}{
			"kind":      t.label,
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}

	logger.Info("Recipe membership removed", map[string]interface{}{
		"kind":      t.label,
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}
