package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	apperrors "github.com/foodgram/foodgram-backend/internal/errors"
	"github.com/foodgram/foodgram-backend/internal/storage"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	redispkg "github.com/foodgram/foodgram-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrNotRecipeAuthor is the forbidden case: only the author mutates a recipe
	ErrNotRecipeAuthor = errors.New("only the author can modify this recipe")
	// ErrImageStoreUnavailable is infrastructure, not validation: the caller may retry
	ErrImageStoreUnavailable = errors.New("image store unavailable")
)

// Outlives the hourly refresh so a slow run never leaves the cache cold
const popularCacheTTL = 70 * time.Minute

// ImageStore persists uploaded recipe images and returns their public URL
type ImageStore interface {
	UploadBase64(data, folder string) (string, error)
}

// FeedPublisher pushes new-recipe events to an author's subscribers
type FeedPublisher interface {
	NotifyRecipeCreated(subscriberIDs []uint, recipe RecipeSummary)
}

// RecipeListFilter is the service-level listing filter. FavoritedOnly and
// InCartOnly require an authenticated viewer.
type RecipeListFilter struct {
	AuthorID      *uint
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
	Limit         int
	Offset        int
}

type RecipeService interface {
	CreateRecipe(authorID uint, input RecipeInput) (*RecipeView, error)
	UpdateRecipe(actorID, recipeID uint, input RecipeInput) (*RecipeView, error)
	GetRecipe(recipeID uint, viewerID *uint) (*RecipeView, error)
	ListRecipes(filter RecipeListFilter, viewerID *uint) ([]RecipeView, error)
	DeleteRecipe(actorID, recipeID uint) error
	GetPopularRecipes(ctx context.Context, limit int) ([]RecipeSummary, error)
	RefreshPopularRecipes(ctx context.Context, limit int) error
}

type recipeService struct {
	recipeRepo       repository.RecipeRepository
	tagRepo          repository.TagRepository
	ingredientRepo   repository.IngredientRepository
	favoriteRepo     repository.FavoriteRepository
	shoppingCartRepo repository.ShoppingCartRepository
	subscriptionRepo repository.SubscriptionRepository
	imageStore       ImageStore
	feedPublisher    FeedPublisher
	db               *gorm.DB
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	favoriteRepo repository.FavoriteRepository,
	shoppingCartRepo repository.ShoppingCartRepository,
	subscriptionRepo repository.SubscriptionRepository,
	imageStore ImageStore,
	feedPublisher FeedPublisher,
	db *gorm.DB,
) RecipeService {
	return &recipeService{
		recipeRepo:       recipeRepo,
		tagRepo:          tagRepo,
		ingredientRepo:   ingredientRepo,
		favoriteRepo:     favoriteRepo,
		shoppingCartRepo: shoppingCartRepo,
		subscriptionRepo: subscriptionRepo,
		imageStore:       imageStore,
		feedPublisher:    feedPublisher,
		db:               db,
	}
}

// validateInput checks every business rule of a recipe payload and reports all
// violations together. Unknown tag/ingredient ids are validation failures, not
// NotFound: they are payload references, not the addressed resource. A store
// error during the existence checks aborts validation and is returned as is.
func (s *recipeService) validateInput(input RecipeInput) (*ValidationError, error) {
	violations := fieldErrors{}

	if strings.TrimSpace(input.Name) == "" {
		violations.add("name", "must not be empty")
	}
	if strings.TrimSpace(input.Text) == "" {
		violations.add("text", "must not be empty")
	}
	if input.CookingTime <= 0 {
		violations.add("cooking_time", "must be a positive number of minutes")
	}

	if len(input.TagIDs) == 0 {
		violations.add("tags", "at least one tag is required")
	} else {
		tags, err := s.tagRepo.FindByIDs(input.TagIDs)
		if err != nil {
			return nil, err
		}
		if len(tags) != len(uniqueIDs(input.TagIDs)) {
			violations.add("tags", "one or more tags do not exist")
		}
	}

	if len(input.Ingredients) == 0 {
		violations.add("ingredients", "at least one ingredient is required")
	} else {
		seen := make(map[uint]bool, len(input.Ingredients))
		ids := make([]uint, 0, len(input.Ingredients))
		for _, line := range input.Ingredients {
			if line.Amount <= 0 {
				violations.add("ingredients", fmt.Sprintf("amount for ingredient %d must be positive", line.ID))
			}
			if seen[line.ID] {
				violations.add("ingredients", fmt.Sprintf("ingredient %d appears more than once", line.ID))
			}
			seen[line.ID] = true
			ids = append(ids, line.ID)
		}

		ingredients, err := s.ingredientRepo.FindByIDs(ids)
		if err != nil {
			return nil, err
		}
		if len(ingredients) != len(seen) {
			violations.add("ingredients", "one or more ingredients do not exist")
		}
	}

	return violations.toError(), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// resolveImage stores a base64 image payload and returns its URL. An empty
// payload keeps the current image. A defective payload is the client's fault
// and comes back as a ValidationError; only actual store failures surface as
// the retryable ErrImageStoreUnavailable.
func (s *recipeService) resolveImage(input RecipeInput, current string) (string, error) {
	if input.Image == "" {
		return current, nil
	}
	if s.imageStore == nil {
		return "", ErrImageStoreUnavailable
	}
	url, err := s.imageStore.UploadBase64(input.Image, "recipes")
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			logger.Warn("Image payload rejected", map[string]interface{}{
				"error": err.Error(),
			})
			return "", newValidationError("image", "must be a base64-encoded jpeg, png, gif or webp image")
		}
		logger.Error("Image store upload failed", err, nil)
		return "", fmt.Errorf("%w: %v", ErrImageStoreUnavailable, err)
	}
	return url, nil
}

func (s *recipeService) CreateRecipe(authorID uint, input RecipeInput) (*RecipeView, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": authorID,
		"name":      input.Name,
	})

	verr, err := s.validateInput(input)
	if err != nil {
		logger.Error("Recipe validation aborted by store error", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	if verr != nil {
		logger.Warn("Recipe payload rejected", map[string]interface{}{
			"author_id": authorID,
			"fields":    verr.Fields,
		})
		return nil, verr
	}

	image, err := s.resolveImage(input, "")
	if err != nil {
		return nil, err
	}

	recipe := model.Recipe{
		Name:        strings.TrimSpace(input.Name),
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Image:       image,
		AuthorID:    authorID,
	}

	// Recipe row, tag links and ingredient lines commit together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := s.writeTagLinks(tx, recipe.ID, input.TagIDs); err != nil {
			return err
		}
		return s.writeIngredientLines(tx, recipe.ID, input.Ingredients)
	})
	if err != nil {
		logger.Error("Failed to create recipe", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}

	logger.Info("Recipe created successfully", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})

	s.publishCreated(&recipe)

	return s.GetRecipe(recipe.ID, &authorID)
}

func (s *recipeService) UpdateRecipe(actorID, recipeID uint, input RecipeInput) (*RecipeView, error) {
	logger.Info("Updating recipe", map[string]interface{}{
		"actor_id":  actorID,
		"recipe_id": recipeID,
	})

	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if recipe.AuthorID != actorID {
		logger.Warn("Recipe update denied: ownership mismatch", map[string]interface{}{
			"actor_id":  actorID,
			"recipe_id": recipeID,
			"author_id": recipe.AuthorID,
		})
		return nil, ErrNotRecipeAuthor
	}

	verr, err := s.validateInput(input)
	if err != nil {
		logger.Error("Recipe validation aborted by store error", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}
	if verr != nil {
		logger.Warn("Recipe payload rejected", map[string]interface{}{
			"actor_id": actorID,
			"fields":   verr.Fields,
		})
		return nil, verr
	}

	image, err := s.resolveImage(input, recipe.Image)
	if err != nil {
		return nil, err
	}

	// Full replacement of the tag set and ingredient lines: delete all, insert
	// all, in the same transaction as the recipe row.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         strings.TrimSpace(input.Name),
			"text":         input.Text,
			"cooking_time": input.CookingTime,
			"image":        image,
		}
		if err := tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}

		if err := s.writeTagLinks(tx, recipeID, input.TagIDs); err != nil {
			return err
		}
		return s.writeIngredientLines(tx, recipeID, input.Ingredients)
	})
	if err != nil {
		logger.Error("Failed to update recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}

	logger.Info("Recipe updated successfully", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.GetRecipe(recipeID, &actorID)
}

func (s *recipeService) writeTagLinks(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	links := make([]model.RecipeTag, 0, len(tagIDs))
	for _, tagID := range uniqueIDs(tagIDs) {
		links = append(links, model.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return tx.Create(&links).Error
}

func (s *recipeService) writeIngredientLines(tx *gorm.DB, recipeID uint, lines []IngredientInput) error {
	rows := make([]model.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return tx.Create(&rows).Error
}

func (s *recipeService) GetRecipe(recipeID uint, viewerID *uint) (*RecipeView, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var favorited, inCart bool
	if viewerID != nil {
		if favorited, err = s.favoriteRepo.Exists(*viewerID, recipeID); err != nil {
			return nil, err
		}
		if inCart, err = s.shoppingCartRepo.Exists(*viewerID, recipeID); err != nil {
			return nil, err
		}
	}

	return newRecipeView(recipe, favorited, inCart), nil
}

func (s *recipeService) ListRecipes(filter RecipeListFilter, viewerID *uint) ([]RecipeView, error) {
	if (filter.FavoritedOnly || filter.InCartOnly) && viewerID == nil {
		return nil, newValidationError("filter", "favorited and cart filters require authentication")
	}

	repoFilter := repository.RecipeFilter{
		AuthorID: filter.AuthorID,
		TagSlugs: filter.TagSlugs,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if filter.FavoritedOnly {
		repoFilter.FavoritedBy = viewerID
	}
	if filter.InCartOnly {
		repoFilter.InCartOf = viewerID
	}

	recipes, err := s.recipeRepo.FindWithFilter(repoFilter)
	if err != nil {
		return nil, err
	}

	favoritedSet, cartSet, err := s.viewerMembershipSets(viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		recipe := &recipes[i]
		views = append(views, *newRecipeView(recipe, favoritedSet[recipe.ID], cartSet[recipe.ID]))
	}
	return views, nil
}

func (s *recipeService) viewerMembershipSets(viewerID *uint) (map[uint]bool, map[uint]bool, error) {
	if viewerID == nil {
		return nil, nil, nil
	}

	favoriteIDs, err := s.favoriteRepo.FindRecipeIDsByUser(*viewerID)
	if err != nil {
		return nil, nil, err
	}
	cartIDs, err := s.shoppingCartRepo.FindRecipeIDsByUser(*viewerID)
	if err != nil {
		return nil, nil, err
	}

	favoritedSet := make(map[uint]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favoritedSet[id] = true
	}
	cartSet := make(map[uint]bool, len(cartIDs))
	for _, id := range cartIDs {
		cartSet[id] = true
	}
	return favoritedSet, cartSet, nil
}

func (s *recipeService) DeleteRecipe(actorID, recipeID uint) error {
	logger.Info("Deleting recipe", map[string]interface{}{
		"actor_id":  actorID,
		"recipe_id": recipeID,
	})

	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID != actorID {
		logger.Warn("Recipe delete denied: ownership mismatch", map[string]interface{}{
			"actor_id":  actorID,
			"recipe_id": recipeID,
			"author_id": recipe.AuthorID,
		})
		return ErrNotRecipeAuthor
	}

	// The recipe row and every join row referencing it go together
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, recipeID).Error
	})
	if err != nil {
		logger.Error("Failed to delete recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return err
	}

	logger.Info("Recipe deleted successfully", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return nil
}

func (s *recipeService) publishCreated(recipe *model.Recipe) {
	if s.feedPublisher == nil || s.subscriptionRepo == nil {
		return
	}

	subscriberIDs, err := s.subscriptionRepo.FindSubscriberIDs(recipe.AuthorID)
	if err != nil {
		logger.Error("Failed to resolve subscribers for feed event", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
		})
		return
	}
	if len(subscriberIDs) == 0 {
		return
	}

	s.feedPublisher.NotifyRecipeCreated(subscriberIDs, newRecipeSummary(recipe))
}

// GetPopularRecipes serves the most-favorited ranking from the Redis cache,
// falling back to the database on a miss.
func (s *recipeService) GetPopularRecipes(ctx context.Context, limit int) ([]RecipeSummary, error) {
	if payload, err := redispkg.GetPopularRecipes(ctx); err == nil && payload != nil {
		var summaries []RecipeSummary
		if err := json.Unmarshal(payload, &summaries); err == nil {
			if limit > 0 && limit < len(summaries) {
				summaries = summaries[:limit]
			}
			return summaries, nil
		}
	} else if err != nil {
		logger.Warn("Popular recipes cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	summaries, err := s.loadPopularRecipes(limit)
	if err != nil {
		return nil, err
	}
	s.cachePopularRecipes(ctx, summaries)
	return summaries, nil
}

// RefreshPopularRecipes recomputes the ranking and rewrites the cache
func (s *recipeService) RefreshPopularRecipes(ctx context.Context, limit int) error {
	summaries, err := s.loadPopularRecipes(limit)
	if err != nil {
		return err
	}
	s.cachePopularRecipes(ctx, summaries)

	logger.Info("Popular recipes cache refreshed", map[string]interface{}{
		"count": len(summaries),
	})
	return nil
}

func (s *recipeService) loadPopularRecipes(limit int) ([]RecipeSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	recipes, err := s.recipeRepo.FindMostFavorited(limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, newRecipeSummary(&recipes[i]))
	}
	return summaries, nil
}

func (s *recipeService) cachePopularRecipes(ctx context.Context, summaries []RecipeSummary) {
	payload, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := redispkg.SetPopularRecipes(ctx, payload, popularCacheTTL); err != nil {
		logger.Warn("Popular recipes cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// used by membership services to translate duplicate-key races
func isDuplicateKey(err error) bool {
	return apperrors.IsUniqueViolation(err)
}
