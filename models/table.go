package models

import "time"

type Table struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Capacity    int         `gorm:"not null" json:"capacity"`
	Description string      `gorm:"type:varchar(255);not null" json:"description"`
	Status      TableStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
