package repository

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Tag slugs use any-of semantics:
// a recipe matches when it carries at least one of the given tags.
type RecipeFilter struct {
	AuthorID    *uint
	TagSlugs    []string
	FavoritedBy *uint // restrict to recipes this user favorited
	InCartOf    *uint // restrict to recipes in this user's shopping cart
	Limit       int
	Offset      int
}

type RecipeRepository interface {
	FindByID(id uint) (*model.Recipe, error)
	FindWithFilter(filter RecipeFilter) ([]model.Recipe, error)
	FindByAuthor(authorID uint, limit int) ([]model.Recipe, error)
	FindMostFavorited(limit int) ([]model.Recipe, error)
	CountByAuthor(authorID uint) (int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// baseQuery preloads everything a RecipeView needs. Ingredient lines keep
// their insertion order, which is the line order of the last write.
func (r *recipeRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC").Preload("Ingredient")
		})
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.baseQuery().First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindWithFilter(filter RecipeFilter) ([]model.Recipe, error) {
	logger.Debug("Finding recipes with filter", map[string]interface{}{
		"author_id":    filter.AuthorID,
		"tag_slugs":    filter.TagSlugs,
		"favorited_by": filter.FavoritedBy,
		"in_cart_of":   filter.InCartOf,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})

	query := r.baseQuery()

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	if len(filter.TagSlugs) > 0 {
		taggedRecipes := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", taggedRecipes)
	}

	if filter.FavoritedBy != nil {
		favorited := r.db.Table("favorites").
			Select("favorites.recipe_id").
			Where("favorites.user_id = ?", *filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}

	if filter.InCartOf != nil {
		inCart := r.db.Table("shopping_cart_entries").
			Select("shopping_cart_entries.recipe_id").
			Where("shopping_cart_entries.user_id = ?", *filter.InCartOf)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	// Stable ordering; pagination slices over it
	query = query.Order("recipes.name ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes with filter", err, nil)
		return nil, err
	}

	logger.Debug("Recipes found with filter", map[string]interface{}{
		"count": len(recipes),
	})
	return recipes, nil
}

func (r *recipeRepository) FindByAuthor(authorID uint, limit int) ([]model.Recipe, error) {
	var recipes []model.Recipe
	query := r.db.Where("author_id = ?", authorID).Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes by author", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) FindMostFavorited(limit int) ([]model.Recipe, error) {
	favoriteCounts := r.db.Table("favorites").
		Select("favorites.recipe_id, COUNT(*) AS count").
		Group("favorites.recipe_id")

	var recipes []model.Recipe
	err := r.db.Model(&model.Recipe{}).
		Joins("LEFT JOIN (?) fc ON fc.recipe_id = recipes.id", favoriteCounts).
		Order("COALESCE(fc.count, 0) DESC, recipes.name ASC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		logger.Error("Failed to find most favorited recipes", err, nil)
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
