package models

import (
	"gorm.io/gorm"
	"time"
)

type LoginToken struct {
	gorm.Model
	Token          string `gorm:"size:768;index;not null"`
	ExpirationTime time.Time
	UserID         uint   `gorm:"index"`
	Role           string `gorm:"size:10"`
}
