package service

import (
	"github.com/foodgram/foodgram-backend/internal/app/model"
)

// IngredientInput is one ingredient line of a recipe payload
type IngredientInput struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// RecipeInput is the write shape for recipe create/update. Image is either a
// base64 payload ("data:image/...;base64,...") handed to the image store, or
// empty to keep the current one.
type RecipeInput struct {
	Name        string            `json:"name"`
	Text        string            `json:"text"`
	CookingTime int               `json:"cooking_time"`
	Image       string            `json:"image"`
	TagIDs      []uint            `json:"tags"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// UserView is the read shape of a user profile. IsSubscribed is relative to
// the requesting viewer, false for anonymous reads.
type UserView struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeIngredientView flattens an ingredient line for reads
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeView is the read shape for a recipe. The two viewer-relative booleans
// are computed per read, never stored.
type RecipeView struct {
	ID               uint                   `json:"id"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	Image            string                 `json:"image"`
	CookingTime      int                    `json:"cooking_time"`
	Author           UserView               `json:"author"`
	Tags             []model.Tag            `json:"tags"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
}

// RecipeSummary is the minimal projection used in list contexts: favorites,
// cart, subscription feeds.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionView is one subscribed-to author with a bounded recipe sample
type SubscriptionView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func newUserView(user *model.User, isSubscribed bool) UserView {
	return UserView{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func newRecipeSummary(recipe *model.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func newRecipeView(recipe *model.Recipe, isFavorited, isInShoppingCart bool) *RecipeView {
	ingredients := make([]RecipeIngredientView, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		ingredients = append(ingredients, RecipeIngredientView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []model.Tag{}
	}

	return &RecipeView{
		ID:               recipe.ID,
		Name:             recipe.Name,
		Text:             recipe.Text,
		Image:            recipe.Image,
		CookingTime:      recipe.CookingTime,
		Author:           newUserView(&recipe.Author, false),
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInShoppingCart,
	}
}
