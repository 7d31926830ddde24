package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Username       string `gorm:"size:20;unique;not null"`
	Email          string `gorm:"size:120;unique;not null"`
	Password       string `gorm:"size:60;not null" json:"-"`
	Role           string `gorm:"size:10;not null;default:user"`
	ProfilePicture string `gorm:"size:255"`
	CartItems      []CartItem
	Orders         []Order      `gorm:"foreignKey:CustomerID"`
	LoginTokens    []LoginToken `json:"-"`
}
