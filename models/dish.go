package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"type:varchar(255);not null" json:"name"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	NumberOfServings int             `gorm:"not null" json:"numberOfServings"`
	Category         DishCategory    `gorm:"type:varchar(30);not null" json:"category"`
	Image            *string         `gorm:"type:varchar(512)" json:"image"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	Ingredients []Ingredient `gorm:"-" json:"ingredients"`
}
