package models

import "time"

type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DishIngredient links a dish to one of its ingredients.
type DishIngredient struct {
	DishID       uint      `gorm:"primaryKey;autoIncrement:false" json:"dishId"`
	IngredientID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"ingredientId"`
	CreatedAt    time.Time `json:"createdAt"`
}
