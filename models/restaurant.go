package models

import "gorm.io/gorm"

const DefaultImage = "default.jpg"

var OpeningHoursChoices = []string{"9am-5pm", "10am-6pm", "11am-7pm", "12pm-8pm"}

type Restaurant struct {
	gorm.Model
	Name         string `gorm:"size:120;not null"`
	Contact      string `gorm:"size:15;not null"`
	Address      string `gorm:"size:150"`
	OpeningHours string `gorm:"size:50"`
	Logo         string `gorm:"size:255;default:default.jpg"`
	OwnerID      uint   `gorm:"uniqueIndex;not null"`
	Owner        User   `gorm:"foreignKey:OwnerID" json:"-"`
	MenuItems    []MenuItem
}
