package service

import (
	"testing"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupShoppingCartServiceTest(t *testing.T) (ShoppingCartService, *model.User, *model.Recipe, repository.ShoppingCartRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	shoppingCartRepo := repository.NewShoppingCartRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)
	shoppingCartService := NewShoppingCartService(shoppingCartRepo, recipeRepo)

	user := &model.User{
		Username:     "shopper",
		Email:        "shopper@example.com",
		FirstName:    "Sam",
		LastName:     "Shopper",
		PasswordHash: "hash",
	}
	testDB.Create(user)

	recipe := &model.Recipe{
		Name:        "Salad",
		Text:        "Chop and toss.",
		CookingTime: 10,
		AuthorID:    user.ID,
	}
	testDB.Create(recipe)

	return shoppingCartService, user, recipe, shoppingCartRepo, testDB
}

func TestShoppingCartService_AddToCart_Success(t *testing.T) {
	cartService, user, recipe, _, _ := setupShoppingCartServiceTest(t)

	summary, err := cartService.AddToCart(user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, summary.ID)
	assert.Equal(t, "Salad", summary.Name)
}

func TestShoppingCartService_AddToCart_RecipeNotFound(t *testing.T) {
	cartService, user, _, _, _ := setupShoppingCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, 9999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestShoppingCartService_AddToCart_Duplicate(t *testing.T) {
	cartService, user, recipe, _, _ := setupShoppingCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, recipe.ID)
	require.NoError(t, err)

	_, err = cartService.AddToCart(user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyInShoppingCart)
}

func TestShoppingCartService_AddToCart_RaceLoser(t *testing.T) {
	cartService, user, recipe, shoppingCartRepo, _ := setupShoppingCartServiceTest(t)

	require.NoError(t, shoppingCartRepo.Create(&model.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}))

	_, err := cartService.AddToCart(user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyInShoppingCart)
}

func TestShoppingCartService_RemoveFromCart_Success(t *testing.T) {
	cartService, user, recipe, _, testDB := setupShoppingCartServiceTest(t)

	_, err := cartService.AddToCart(user.ID, recipe.ID)
	require.NoError(t, err)

	err = cartService.RemoveFromCart(user.ID, recipe.ID)
	assert.NoError(t, err)

	var count int64
	testDB.Model(&model.ShoppingCartEntry{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestShoppingCartService_RemoveFromCart_NotFound(t *testing.T) {
	cartService, user, recipe, _, _ := setupShoppingCartServiceTest(t)

	err := cartService.RemoveFromCart(user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrShoppingCartEntryNotFound)
}

func TestShoppingCartService_ScopedPerUser(t *testing.T) {
	cartService, user, recipe, _, testDB := setupShoppingCartServiceTest(t)

	other := &model.User{
		Username:     "other",
		Email:        "other@example.com",
		FirstName:    "Olly",
		LastName:     "Other",
		PasswordHash: "hash",
	}
	testDB.Create(other)

	_, err := cartService.AddToCart(user.ID, recipe.ID)
	require.NoError(t, err)

	// The same recipe is free for the other user
	_, err = cartService.AddToCart(other.ID, recipe.ID)
	assert.NoError(t, err)

	// And removal only touches the caller's row
	require.NoError(t, cartService.RemoveFromCart(user.ID, recipe.ID))
	err = cartService.RemoveFromCart(other.ID, recipe.ID)
	assert.NoError(t, err)
}
