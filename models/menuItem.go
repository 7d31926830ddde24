package models

import "gorm.io/gorm"

type MenuItem struct {
	gorm.Model
	Name         string     `gorm:"size:100;not null"`
	Description  string     `gorm:"size:500"`
	Price        float64    `gorm:"not null"`
	Category     string     `gorm:"size:50;not null"`
	ImageFile    string     `gorm:"size:255;not null;default:default.jpg"`
	RestaurantID uint       `gorm:"index;not null"`
	Restaurant   Restaurant `json:"-"`
}
