package models

import "gorm.io/gorm"

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
)

type Order struct {
	gorm.Model
	CustomerID   uint       `gorm:"index;not null"`
	Customer     User       `gorm:"foreignKey:CustomerID" json:"-"`
	RestaurantID uint       `gorm:"index;not null"`
	Restaurant   Restaurant `json:"-"`
	Status       string     `gorm:"size:20;not null;default:Pending"`
	Total        float64    `gorm:"not null"`
	OrderItems   []OrderItem
}
