package model

import "time"

// Ingredient is a catalog entry referenced by recipes, never owned by one.
type Ingredient struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(200);not null;index" json:"name"`
	MeasurementUnit string    `gorm:"type:varchar(200);not null" json:"measurement_unit"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
