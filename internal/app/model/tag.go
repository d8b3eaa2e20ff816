package model

import "time"

// Tag is a predefined label recipes can be filtered by. Admin-managed,
// immutable after creation.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null" json:"color"` // hex, e.g. "#49B64E"
	Slug      string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeTag joins recipes and tags
type RecipeTag struct {
	RecipeID  uint      `gorm:"primaryKey;index" json:"recipe_id"`
	TagID     uint      `gorm:"primaryKey;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
