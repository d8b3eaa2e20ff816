package service

import (
	"fmt"
	"strings"

	"github.com/foodgram/foodgram-backend/internal/app/repository"
	"github.com/foodgram/foodgram-backend/pkg/logger"
)

const shoppingListHeader = "Shopping list from Foodgram:"

type ShoppingListService interface {
	GetIngredientTotals(userID uint) ([]repository.IngredientTotal, error)
	BuildShoppingList(userID uint) (string, error)
}

type shoppingListService struct {
	shoppingCartRepo repository.ShoppingCartRepository
}

func NewShoppingListService(shoppingCartRepo repository.ShoppingCartRepository) ShoppingListService {
	return &shoppingListService{shoppingCartRepo: shoppingCartRepo}
}

func (s *shoppingListService) GetIngredientTotals(userID uint) ([]repository.IngredientTotal, error) {
	totals, err := s.shoppingCartRepo.SumIngredientsByUser(userID)
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = []repository.IngredientTotal{}
	}
	return totals, nil
}

// BuildShoppingList renders the consolidated cart as plain text, one line per
// ingredient in name order. An empty cart still yields the header.
func (s *shoppingListService) BuildShoppingList(userID uint) (string, error) {
	totals, err := s.GetIngredientTotals(userID)
	if err != nil {
		return "", err
	}

	logger.Info("Building shopping list", map[string]interface{}{
		"user_id": userID,
		"lines":   len(totals),
	})

	var b strings.Builder
	b.WriteString(shoppingListHeader)
	b.WriteString("\n\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "%s, %d %s\n", t.Name, t.TotalAmount, t.MeasurementUnit)
	}
	return b.String(), nil
}
