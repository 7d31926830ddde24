package models

import "gorm.io/gorm"

// One row per (user, menu item); adding the same item again bumps Quantity.
type CartItem struct {
	gorm.Model
	UserID     uint `gorm:"uniqueIndex:idx_cart_user_item;not null"`
	User       User `json:"-"`
	MenuItemID uint `gorm:"uniqueIndex:idx_cart_user_item;not null"`
	MenuItem   MenuItem
	Quantity   int `gorm:"not null"`
}
