package repository

import (
	"testing"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRecipeRepositoryTest(t *testing.T) (RecipeRepository, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	author := &model.User{
		Username:     "author",
		Email:        "author@example.com",
		FirstName:    "Amy",
		LastName:     "Author",
		PasswordHash: "hash",
	}
	testDB.Create(author)

	return NewRecipeRepository(testDB), testDB, author
}

func createRecipe(t *testing.T, testDB *gorm.DB, authorID uint, name string, tags ...*model.Tag) *model.Recipe {
	recipe := &model.Recipe{
		Name:        name,
		Text:        "Cook it.",
		CookingTime: 10,
		AuthorID:    authorID,
	}
	require.NoError(t, testDB.Create(recipe).Error)
	for _, tag := range tags {
		require.NoError(t, testDB.Create(&model.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	return recipe
}

func TestRecipeRepository_FindWithFilter_TagAnyOf(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	breakfast := &model.Tag{Name: "Breakfast", Color: "#49B64E", Slug: "breakfast"}
	dinner := &model.Tag{Name: "Dinner", Color: "#8775D2", Slug: "dinner"}
	testDB.Create(breakfast)
	testDB.Create(dinner)

	createRecipe(t, testDB, author.ID, "Pancakes", breakfast)
	createRecipe(t, testDB, author.ID, "Stew", dinner)
	createRecipe(t, testDB, author.ID, "Omelette", breakfast, dinner)
	createRecipe(t, testDB, author.ID, "Plain Bread")

	recipes, err := repo.FindWithFilter(RecipeFilter{TagSlugs: []string{"breakfast"}})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Omelette", recipes[0].Name)
	assert.Equal(t, "Pancakes", recipes[1].Name)

	// A recipe carrying either tag matches, but only once
	recipes, err = repo.FindWithFilter(RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}})
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}

func TestRecipeRepository_FindWithFilter_FavoritedBy(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	liked := createRecipe(t, testDB, author.ID, "Liked")
	createRecipe(t, testDB, author.ID, "Ignored")

	fan := &model.User{
		Username:     "fan",
		Email:        "fan@example.com",
		FirstName:    "Fay",
		LastName:     "Fan",
		PasswordHash: "hash",
	}
	testDB.Create(fan)
	testDB.Create(&model.Favorite{UserID: fan.ID, RecipeID: liked.ID})

	recipes, err := repo.FindWithFilter(RecipeFilter{FavoritedBy: &fan.ID})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Liked", recipes[0].Name)
}

func TestRecipeRepository_FindWithFilter_InCartOf(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	wanted := createRecipe(t, testDB, author.ID, "Wanted")
	createRecipe(t, testDB, author.ID, "Other")

	testDB.Create(&model.ShoppingCartEntry{UserID: author.ID, RecipeID: wanted.ID})

	recipes, err := repo.FindWithFilter(RecipeFilter{InCartOf: &author.ID})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Wanted", recipes[0].Name)
}

func TestRecipeRepository_FindWithFilter_Pagination(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	createRecipe(t, testDB, author.ID, "Apple Pie")
	createRecipe(t, testDB, author.ID, "Borscht")
	createRecipe(t, testDB, author.ID, "Crepes")

	recipes, err := repo.FindWithFilter(RecipeFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Apple Pie", recipes[0].Name)

	recipes, err = repo.FindWithFilter(RecipeFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Crepes", recipes[0].Name)
}

func TestRecipeRepository_FindMostFavorited(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	popular := createRecipe(t, testDB, author.ID, "Popular")
	middling := createRecipe(t, testDB, author.ID, "Middling")
	createRecipe(t, testDB, author.ID, "Unloved")

	for i, email := range []string{"a@example.com", "b@example.com"} {
		fan := &model.User{
			Username:     email[:1] + "fan",
			Email:        email,
			FirstName:    "Fan",
			LastName:     "Fan",
			PasswordHash: "hash",
		}
		testDB.Create(fan)
		testDB.Create(&model.Favorite{UserID: fan.ID, RecipeID: popular.ID})
		if i == 0 {
			testDB.Create(&model.Favorite{UserID: fan.ID, RecipeID: middling.ID})
		}
	}

	recipes, err := repo.FindMostFavorited(2)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Popular", recipes[0].Name)
	assert.Equal(t, "Middling", recipes[1].Name)
}

func TestRecipeRepository_FindByAuthor_Limit(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	createRecipe(t, testDB, author.ID, "First")
	createRecipe(t, testDB, author.ID, "Second")
	createRecipe(t, testDB, author.ID, "Third")

	recipes, err := repo.FindByAuthor(author.ID, 2)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	recipes, err = repo.FindByAuthor(author.ID, 0)
	require.NoError(t, err)
	assert.Len(t, recipes, 3)
}

func TestRecipeRepository_CountByAuthor(t *testing.T) {
	repo, testDB, author := setupRecipeRepositoryTest(t)

	createRecipe(t, testDB, author.ID, "Only One")

	count, err := repo.CountByAuthor(author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountByAuthor(9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
