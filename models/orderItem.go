package models

import "gorm.io/gorm"

// Name and Price are copied from the menu item at checkout.
type OrderItem struct {
	gorm.Model
	OrderID    uint    `gorm:"index;not null"`
	MenuItemID uint    `gorm:"index;not null"`
	Name       string  `gorm:"size:100;not null"`
	Price      float64 `gorm:"not null"`
	Quantity   int     `gorm:"not null"`
}
