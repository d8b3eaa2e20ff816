package model

import "time"

// ShoppingCartEntry puts a recipe into a user's shopping cart. Same shape as
// Favorite but independent: a recipe can be in one, both, or neither.
type ShoppingCartEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_shopping_cart_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`

	Recipe Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_cart_entries"
}
