package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TableID   uint            `gorm:"not null;index" json:"tableId"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;default:'in_progress';index" json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`

	Dishes []Dish `gorm:"-" json:"dishes"`
}

// DishOrder links an order to one of its dishes; the composite key keeps the set unique.
type DishOrder struct {
	OrderID   uint      `gorm:"primaryKey;autoIncrement:false" json:"orderId"`
	DishID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"dishId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SumPrices folds dish prices into a subtotal.
func SumPrices(dishes []Dish) decimal.Decimal {
	total := decimal.Zero
	for _, d := range dishes {
		total = total.Add(d.Price)
	}
	return total
}
