package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/foodgram/foodgram-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recipeServiceFixture struct {
	service     RecipeService
	author      *model.User
	tags        []model.Tag
	ingredients []model.Ingredient
	db          *gorm.DB
}

func setupRecipeServiceTest(t *testing.T) *recipeServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	recipeRepo := repository.NewRecipeRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	ingredientRepo := repository.NewIngredientRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	shoppingCartRepo := repository.NewShoppingCartRepository(testDB)
	subscriptionRepo := repository.NewSubscriptionRepository(testDB)

	recipeService := NewRecipeService(
		recipeRepo,
		tagRepo,
		ingredientRepo,
		favoriteRepo,
		shoppingCartRepo,
		subscriptionRepo,
		nil,
		nil,
		testDB,
	)

	author := &model.User{
		Username:     "chef",
		Email:        "chef@example.com",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "hash",
	}
	testDB.Create(author)

	tags := []model.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Dinner", Color: "#49B64E", Slug: "dinner"},
	}
	testDB.Create(&tags)

	ingredients := []model.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
	}
	testDB.Create(&ingredients)

	return &recipeServiceFixture{
		service:     recipeService,
		author:      author,
		tags:        tags,
		ingredients: ingredients,
		db:          testDB,
	}
}

func (f *recipeServiceFixture) validInput() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		TagIDs:      []uint{f.tags[0].ID},
		Ingredients: []IngredientInput{
			{ID: f.ingredients[0].ID, Amount: 200},
			{ID: f.ingredients[2].ID, Amount: 300},
		},
	}
}

func TestRecipeService_CreateRecipe_Success(t *testing.T) {
	f := setupRecipeServiceTest(t)

	view, err := f.service.CreateRecipe(f.author.ID, f.validInput())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, 20, view.CookingTime)
	assert.Equal(t, f.author.ID, view.Author.ID)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "Flour", view.Ingredients[0].Name)
	assert.Equal(t, 200, view.Ingredients[0].Amount)
	assert.Equal(t, "g", view.Ingredients[0].MeasurementUnit)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
}

func TestRecipeService_CreateRecipe_ReportsAllViolations(t *testing.T) {
	f := setupRecipeServiceTest(t)

	_, err := f.service.CreateRecipe(f.author.ID, RecipeInput{
		Name:        "  ",
		Text:        "",
		CookingTime: 0,
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "text")
	assert.Contains(t, verr.Fields, "cooking_time")
	assert.Contains(t, verr.Fields, "tags")
	assert.Contains(t, verr.Fields, "ingredients")
}

func TestRecipeService_CreateRecipe_UnknownReferences(t *testing.T) {
	f := setupRecipeServiceTest(t)

	input := f.validInput()
	input.TagIDs = []uint{9999}
	input.Ingredients = []IngredientInput{{ID: 8888, Amount: 10}}

	_, err := f.service.CreateRecipe(f.author.ID, input)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tags")
	assert.Contains(t, verr.Fields, "ingredients")
}

func TestRecipeService_CreateRecipe_DuplicateIngredientLine(t *testing.T) {
	f := setupRecipeServiceTest(t)

	input := f.validInput()
	input.Ingredients = []IngredientInput{
		{ID: f.ingredients[0].ID, Amount: 100},
		{ID: f.ingredients[0].ID, Amount: 50},
	}

	_, err := f.service.CreateRecipe(f.author.ID, input)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ingredients")
}

func TestRecipeService_UpdateRecipe_ReplacesTagsAndIngredients(t *testing.T) {
	f := setupRecipeServiceTest(t)

	created, err := f.service.CreateRecipe(f.author.ID, f.validInput())
	require.NoError(t, err)

	update := RecipeInput{
		Name:        "Crepes",
		Text:        "Thinner batter.",
		CookingTime: 15,
		TagIDs:      []uint{f.tags[1].ID},
		Ingredients: []IngredientInput{
			{ID: f.ingredients[1].ID, Amount: 80},
		},
	}

	view, err := f.service.UpdateRecipe(f.author.ID, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Crepes", view.Name)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, "Sugar", view.Ingredients[0].Name)
	assert.Equal(t, 80, view.Ingredients[0].Amount)

	// The old lines are gone, not orphaned
	var lineCount int64
	f.db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&lineCount)
	assert.Equal(t, int64(1), lineCount)
}

func TestRecipeService_UpdateRecipe_NotAuthor(t *testing.T) {
	f := setupRecipeServiceTest(t)

	created, err := f.service.CreateRecipe(f.author.ID, f.validInput())
	require.NoError(t, err)

	other := &model.User{
		Username:     "intruder",
		Email:        "intruder@example.com",
		FirstName:    "Eve",
		LastName:     "Adams",
		PasswordHash: "hash",
	}
	f.db.Create(other)

	_, err = f.service.UpdateRecipe(other.ID, created.ID, f.validInput())
	assert.ErrorIs(t, err, ErrNotRecipeAuthor)
}

func TestRecipeService_UpdateRecipe_NotFound(t *testing.T) {
	f := setupRecipeServiceTest(t)

	_, err := f.service.UpdateRecipe(f.author.ID, 9999, f.validInput())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeService_GetRecipe_ViewerRelativeFlags(t *testing.T) {
	f := setupRecipeServiceTest(t)

	created, err := f.service.CreateRecipe(f.author.ID, f.validInput())
	require.NoError(t, err)

	viewer := &model.User{
		Username:     "reader",
		Email:        "reader@example.com",
		FirstName:    "Bob",
		LastName:     "Reader",
		PasswordHash: "hash",
	}
	f.db.Create(viewer)
	f.db.Create(&model.Favorite{UserID: viewer.ID, RecipeID: created.ID})

	// Anonymous read
	view, err := f.service.GetRecipe(created.ID, nil)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)

	// The favoriting viewer
	view, err = f.service.GetRecipe(created.ID, &viewer.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)

	// A different user
	view, err = f.service.GetRecipe(created.ID, &f.author.ID)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
}

func TestRecipeService_ListRecipes_TagFilter(t *testing.T) {
	f := setupRecipeServiceTest(t)

	first := f.validInput()
	_, err := f.service.CreateRecipe(f.author.ID, first)
	require.NoError(t, err)

	second := f.validInput()
	second.Name = "Stew"
	second.TagIDs = []uint{f.tags[1].ID}
	_, err = f.service.CreateRecipe(f.author.ID, second)
	require.NoError(t, err)

	views, err := f.service.ListRecipes(RecipeListFilter{TagSlugs: []string{"dinner"}}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Stew", views[0].Name)

	// Any-of across slugs
	views, err = f.service.ListRecipes(RecipeListFilter{TagSlugs: []string{"breakfast", "dinner"}}, nil)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestRecipeService_ListRecipes_PersonalFiltersRequireViewer(t *testing.T) {
	f := setupRecipeServiceTest(t)

	_, err := f.service.ListRecipes(RecipeListFilter{FavoritedOnly: true}, nil)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRecipeService_DeleteRecipe_CascadesJoinRows(t *testing.T) {
	f := setupRecipeServiceTest(t)

	created, err := f.service.CreateRecipe(f.author.ID, f.validInput())
	require.NoError(t, err)

	f.db.Create(&model.Favorite{UserID: f.author.ID, RecipeID: created.ID})
	f.db.Create(&model.ShoppingCartEntry{UserID: f.author.ID, RecipeID: created.ID})

	err = f.service.DeleteRecipe(f.author.ID, created.ID)
	require.NoError(t, err)

	_, err = f.service.GetRecipe(created.ID, nil)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	var count int64
	f.db.Model(&model.Favorite{}).Where("recipe_id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	f.db.Model(&model.ShoppingCartEntry{}).Where("recipe_id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	f.db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	f.db.Model(&model.RecipeTag{}).Where("recipe_id = ?", created.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRecipeService_DeleteRecipe_NotAuthor(t *testing.T) {
	f := setupRecipeServiceTest(t)

	created, err := f.service.CreateRecipe(f.author.ID, f.validInput())
	require.NoError(t, err)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		FirstName:    "Cara",
		LastName:     "Other",
		PasswordHash: "hash",
	}
	f.db.Create(other)

	err = f.service.DeleteRecipe(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotRecipeAuthor)

	// Still there
	_, err = f.service.GetRecipe(created.ID, nil)
	assert.NoError(t, err)
}

// stubImageStore stands in for S3 with a canned result
type stubImageStore struct {
	url string
	err error
}

func (s *stubImageStore) UploadBase64(data, folder string) (string, error) {
	return s.url, s.err
}

func (f *recipeServiceFixture) serviceWithImageStore(store ImageStore) RecipeService {
	return NewRecipeService(
		repository.NewRecipeRepository(f.db),
		repository.NewTagRepository(f.db),
		repository.NewIngredientRepository(f.db),
		repository.NewFavoriteRepository(f.db),
		repository.NewShoppingCartRepository(f.db),
		repository.NewSubscriptionRepository(f.db),
		store,
		nil,
		f.db,
	)
}

func TestRecipeService_CreateRecipe_DefectiveImageIsValidation(t *testing.T) {
	f := setupRecipeServiceTest(t)

	imageErr := fmt.Errorf("%w: malformed data URI", storage.ErrInvalidImage)
	recipeService := f.serviceWithImageStore(&stubImageStore{err: imageErr})

	input := f.validInput()
	input.Image = "data:image/png;base64"

	_, err := recipeService.CreateRecipe(f.author.ID, input)

	// A payload the client can fix is never the retryable store error
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "image")
	assert.False(t, errors.Is(err, ErrImageStoreUnavailable))
}

func TestRecipeService_CreateRecipe_ImageStoreOutage(t *testing.T) {
	f := setupRecipeServiceTest(t)

	recipeService := f.serviceWithImageStore(&stubImageStore{err: errors.New("connection reset")})

	input := f.validInput()
	input.Image = "data:image/png;base64,aGVsbG8="

	_, err := recipeService.CreateRecipe(f.author.ID, input)

	assert.ErrorIs(t, err, ErrImageStoreUnavailable)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

// failingTagRepository simulates a store outage during the existence check
type failingTagRepository struct {
	repository.TagRepository
	err error
}

func (r *failingTagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	return nil, r.err
}

func TestRecipeService_CreateRecipe_StoreErrorDuringValidation(t *testing.T) {
	f := setupRecipeServiceTest(t)

	storeErr := errors.New("connection refused")
	recipeService := NewRecipeService(
		repository.NewRecipeRepository(f.db),
		&failingTagRepository{err: storeErr},
		repository.NewIngredientRepository(f.db),
		repository.NewFavoriteRepository(f.db),
		repository.NewShoppingCartRepository(f.db),
		repository.NewSubscriptionRepository(f.db),
		nil,
		nil,
		f.db,
	)

	_, err := recipeService.CreateRecipe(f.author.ID, f.validInput())

	// The store error must surface as is, never pass as validated input
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))

	var count int64
	f.db.Model(&model.Recipe{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
