package services

import (
	"context"
	"errors"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"gorm.io/gorm"
)

const (
	msgUnauthorized = "Access unauthorized!"
	msgLoginFirst   = "Please log in to access this page."
	msgNoRestaurant = "No restaurant associated with this account!"
)

// Actor is the authenticated identity making a request. The zero value is anonymous.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func requireLogin(actor Actor) error {
	if !actor.Authenticated() {
		return &Error{Kind: ErrLoginRequired, Message: msgLoginFirst}
	}
	return nil
}

func requireRole(actor Actor, role string) error {
	if err := requireLogin(actor); err != nil {
		return err
	}
	if actor.Role != role {
		return &Error{Kind: ErrWrongRole, Message: msgUnauthorized}
	}
	return nil
}

// restaurantByOwner checks the owner role before touching any restaurant data.
func restaurantByOwner(ctx context.Context, db *gorm.DB, actor Actor) (*models.Restaurant, error) {
	if err := requireRole(actor, models.RoleOwner); err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	err := db.WithContext(ctx).Where("owner_id = ?", actor.UserID).First(&restaurant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &Error{Kind: ErrNoRestaurant, Message: msgNoRestaurant}
		}
		return nil, storageError("", err)
	}
	return &restaurant, nil
}
