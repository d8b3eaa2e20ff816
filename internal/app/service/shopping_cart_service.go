package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
)

var (
	ErrAlreadyInShoppingCart     = errors.New("recipe already in shopping cart")
	ErrShoppingCartEntryNotFound = errors.New("shopping cart entry not found")
)

type ShoppingCartService interface {
	AddToCart(userID, recipeID uint) (*RecipeSummary, error)
	RemoveFromCart(userID, recipeID uint) error
}

type shoppingCartService struct {
	toggle recipeToggle
}

func NewShoppingCartService(
	shoppingCartRepo repository.ShoppingCartRepository,
	recipeRepo repository.RecipeRepository,
) ShoppingCartService {
	return &shoppingCartService{
		toggle: recipeToggle{
			label:      "shopping_cart",
			recipeRepo: recipeRepo,
			exists:     shoppingCartRepo.Exists,
			create: func(userID, recipeID uint) error {
				return shoppingCartRepo.Create(&model.ShoppingCartEntry{UserID: userID, RecipeID: recipeID})
			},
			remove:       shoppingCartRepo.Delete,
			errDuplicate: ErrAlreadyInShoppingCart,
			errNotFound:  ErrShoppingCartEntryNotFound,
		},
	}
}

func (s *shoppingCartService) AddToCart(userID, recipeID uint) (*RecipeSummary, error) {
	return s.toggle.add(userID, recipeID)
}

func (s *shoppingCartService) RemoveFromCart(userID, recipeID uint) error {
	return s.toggle.removeMembership(userID, recipeID)
}
