package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/The-Grit-Agencies/food-court-g4/config"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret123"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.SetupDatabase(config.DatabaseConfig{
		Driver:   "sqlite",
		Database: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRestaurant(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Restaurant {
	t.Helper()

	restaurant := &models.Restaurant{
		Name:         name,
		Contact:      "0712345678",
		Address:      "1 Market Street",
		OpeningHours: "9am-5pm",
		Logo:         models.DefaultImage,
		OwnerID:      owner.ID,
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}

func createMenuItem(t *testing.T, db *gorm.DB, restaurant *models.Restaurant, name string, price float64) *models.MenuItem {
	t.Helper()

	item := &models.MenuItem{
		Name:         name,
		Description:  "House special",
		Price:        price,
		Category:     "Mains",
		ImageFile:    models.DefaultImage,
		RestaurantID: restaurant.ID,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// errorField returns the field an error is reported on.
func errorField(err error) string {
	for field := range FieldErrors(err) {
		return field
	}
	return ""
}

func actorOf(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

// ownerWithRestaurant creates an owner account and its restaurant.
func ownerWithRestaurant(t *testing.T, db *gorm.DB, username, restaurantName string) (Actor, *models.Restaurant) {
	t.Helper()

	owner := createUser(t, db, username, models.RoleOwner)
	return actorOf(owner), createRestaurant(t, db, owner, restaurantName)
}

// memoryBlobs records saved and removed files without touching the disk.
type memoryBlobs struct {
	saveErr error
	saved   []string
	removed []string
}

func (m *memoryBlobs) Save(bucket string, file *multipart.FileHeader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	name := uuid.NewString() + ".png"
	m.saved = append(m.saved, bucket+"/"+name)
	return name, nil
}

func (m *memoryBlobs) Remove(bucket, name string) error {
	m.removed = append(m.removed, bucket+"/"+name)
	return nil
}

// countingInvalidator counts catalog invalidations.
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}
