package service

import (
	"errors"

	"github.com/foodgram/foodgram-backend/internal/app/model"
	"github.com/foodgram/foodgram-backend/internal/app/repository"
)

var (
	ErrAlreadyFavorited = errors.New("recipe already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteService interface {
	AddFavorite(userID, recipeID uint) (*RecipeSummary, error)
	RemoveFavorite(userID, recipeID uint) error
}

type favoriteService struct {
	toggle recipeToggle
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	recipeRepo repository.RecipeRepository,
) FavoriteService {
	return &favoriteService{
		toggle: recipeToggle{
			label:      "favorite",
			recipeRepo: recipeRepo,
			exists:     favoriteRepo.Exists,
			create: func(userID, recipeID uint) error {
				return favoriteRepo.Create(&model.Favorite{UserID: userID, RecipeID: recipeID})
			},
			remove:       favoriteRepo.Delete,
			errDuplicate: ErrAlreadyFavorited,
			errNotFound:  ErrFavoriteNotFound,
		},
	}
}

func (s *favoriteService) AddFavorite(userID, recipeID uint) (*RecipeSummary, error) {
	return s.toggle.add(userID, recipeID)
}

func (s *favoriteService) RemoveFavorite(userID, recipeID uint) error {
	return s.toggle.removeMembership(userID, recipeID)
}
