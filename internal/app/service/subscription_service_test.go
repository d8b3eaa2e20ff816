package service

import (
	"fmt"
	"testing"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSubscriptionServiceTest(t *testing.T) (SubscriptionService, *model.User, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	subscriptionRepo := repository.NewSubscriptionRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)
	subscriptionService := NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo)

	follower := &model.User{
		Username:     "follower",
		Email:        "follower@example.com",
		FirstName:    "Finn",
		LastName:     "Follower",
		PasswordHash: "hash",
	}
	testDB.Create(follower)

	author := &model.User{
		Username:     "author",
		Email:        "author@example.com",
		FirstName:    "Amy",
		LastName:     "Author",
		PasswordHash: "hash",
	}
	testDB.Create(author)

	return subscriptionService, follower, author, testDB
}

func TestSubscriptionService_Subscribe_Success(t *testing.T) {
	subscriptionService, follower, author, _ := setupSubscriptionServiceTest(t)

	view, err := subscriptionService.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, view.ID)
	assert.True(t, view.IsSubscribed)
	assert.Equal(t, int64(0), view.RecipesCount)
}

func TestSubscriptionService_Subscribe_Self(t *testing.T) {
	subscriptionService, follower, _, _ := setupSubscriptionServiceTest(t)

	_, err := subscriptionService.Subscribe(follower.ID, follower.ID)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "author")
}

func TestSubscriptionService_Subscribe_AuthorNotFound(t *testing.T) {
	subscriptionService, follower, _, _ := setupSubscriptionServiceTest(t)

	_, err := subscriptionService.Subscribe(follower.ID, 9999)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestSubscriptionService_Subscribe_Duplicate(t *testing.T) {
	subscriptionService, follower, author, _ := setupSubscriptionServiceTest(t)

	_, err := subscriptionService.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)

	_, err = subscriptionService.Subscribe(follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestSubscriptionService_Subscribe_RaceLoser(t *testing.T) {
	subscriptionService, follower, author, testDB := setupSubscriptionServiceTest(t)

	testDB.Create(&model.Subscription{UserID: follower.ID, AuthorID: author.ID})

	_, err := subscriptionService.Subscribe(follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestSubscriptionService_Unsubscribe_Success(t *testing.T) {
	subscriptionService, follower, author, testDB := setupSubscriptionServiceTest(t)

	_, err := subscriptionService.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)

	err = subscriptionService.Unsubscribe(follower.ID, author.ID)
	assert.NoError(t, err)

	var count int64
	testDB.Model(&model.Subscription{}).Where("user_id = ?", follower.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubscriptionService_Unsubscribe_NotFound(t *testing.T) {
	subscriptionService, follower, author, _ := setupSubscriptionServiceTest(t)

	err := subscriptionService.Unsubscribe(follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestSubscriptionService_ListSubscriptions_RecipeSample(t *testing.T) {
	subscriptionService, follower, author, testDB := setupSubscriptionServiceTest(t)

	for i := 0; i < 5; i++ {
		testDB.Create(&model.Recipe{
			Name:        fmt.Sprintf("Recipe %d", i),
			Text:        "Cook.",
			CookingTime: 10,
			AuthorID:    author.ID,
		})
	}

	_, err := subscriptionService.Subscribe(follower.ID, author.ID)
	require.NoError(t, err)

	// The sample is capped, the count is not
	views, err := subscriptionService.ListSubscriptions(follower.ID, 3)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, author.ID, views[0].ID)
	assert.Len(t, views[0].Recipes, 3)
	assert.Equal(t, int64(5), views[0].RecipesCount)

	// Zero means no cap
	views, err = subscriptionService.ListSubscriptions(follower.ID, 0)
	require.NoError(t, err)
	assert.Len(t, views[0].Recipes, 5)
}

func TestSubscriptionService_ListSubscriptions_Empty(t *testing.T) {
	subscriptionService, follower, _, _ := setupSubscriptionServiceTest(t)

	views, err := subscriptionService.ListSubscriptions(follower.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, views)
}
