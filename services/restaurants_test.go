package services

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"testing"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validProfile() RestaurantProfileInput {
	return RestaurantProfileInput{
		Name:         "Mama Oliech Kitchen",
		Contact:      "0798765432",
		Address:      "22 Marcus Garvey Road",
		OpeningHours: "10am-6pm",
	}
}

func TestRestaurantServiceRequiresOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{})
	ctx := context.Background()

	customer := actorOf(createUser(t, db, "alice", models.RoleUser))
	_, _, err := svc.ListMenu(ctx, customer)
	assert.ErrorIs(t, err, ErrWrongRole)

	_, err = svc.AddMenuItem(ctx, customer, MenuItemInput{Name: "Fish", Price: 10, Category: "Mains"})
	assert.ErrorIs(t, err, ErrWrongRole)

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddMenuItem(t *testing.T) {
	db := newTestDB(t)
	blobs := &memoryBlobs{}
	invalidator := &countingInvalidator{}
	svc := NewRestaurantService(db, invalidator, blobs)
	ctx := context.Background()

	owner, restaurant := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	item, err := svc.AddMenuItem(ctx, owner, MenuItemInput{
		Name:        " Fish ",
		Description: "Whole tilapia",
		Price:       12.5,
		Category:    "Mains",
		Image:       &multipart.FileHeader{Filename: "fish.png", Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fish", item.Name)
	assert.Equal(t, restaurant.ID, item.RestaurantID)
	assert.NotEqual(t, models.DefaultImage, item.ImageFile)
	assert.Len(t, blobs.saved, 1)
	assert.Equal(t, 1, invalidator.calls)

	_, items, err := svc.ListMenu(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddMenuItemValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{})
	owner, _ := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	_, err := svc.AddMenuItem(context.Background(), owner, MenuItemInput{Name: "Fish", Price: 0, Category: "Mains"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, FieldErrors(err), "price")

	_, err = svc.AddMenuItem(context.Background(), owner, MenuItemInput{Price: 3})
	require.ErrorIs(t, err, ErrValidation)
	fields := FieldErrors(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "category")

	for _, price := range []float64{math.Inf(1), math.NaN(), 1e7} {
		_, err := svc.AddMenuItem(context.Background(), owner, MenuItemInput{Name: "Pie", Price: price, Category: "Mains"})
		require.ErrorIs(t, err, ErrValidation, "price %v", price)
		assert.Contains(t, FieldErrors(err), "price")
	}

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditMenuItemRejectsNonFinitePrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{})
	owner, restaurant := ownerWithRestaurant(t, db, "owner", "Mama Oliech")
	item := createMenuItem(t, db, restaurant, "Fish", 10)

	_, err := svc.EditMenuItem(context.Background(), owner, item.ID, MenuItemInput{Name: "Fish", Price: math.Inf(1), Category: "Mains"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "price", errorField(err))

	var stored models.MenuItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, 10.0, stored.Price)
}

func TestMenuItemsOfOtherRestaurantsAreNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{})
	ctx := context.Background()

	_, restaurant := ownerWithRestaurant(t, db, "owner1", "Mama Oliech")
	rival, _ := ownerWithRestaurant(t, db, "owner2", "Java House")
	item := createMenuItem(t, db, restaurant, "Fish", 10)

	_, err := svc.GetMenuItem(ctx, rival, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.EditMenuItem(ctx, rival, item.ID, MenuItemInput{Name: "Stolen", Price: 1, Category: "Mains"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteMenuItem(ctx, rival, item.ID), ErrNotFound)

	var stored models.MenuItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, "Fish", stored.Name)
}

func TestEditMenuItemReplacesImage(t *testing.T) {
	db := newTestDB(t)
	blobs := &memoryBlobs{}
	svc := NewRestaurantService(db, nil, blobs)
	ctx := context.Background()

	owner, restaurant := ownerWithRestaurant(t, db, "owner", "Mama Oliech")
	item := createMenuItem(t, db, restaurant, "Fish", 10)
	require.NoError(t, db.Model(item).Update("image_file", "old.png").Error)

	edited, err := svc.EditMenuItem(ctx, owner, item.ID, MenuItemInput{
		Name:     "Grilled fish",
		Price:    11.999,
		Category: "Mains",
		Image:    &multipart.FileHeader{Filename: "new.jpg", Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grilled fish", edited.Name)
	assert.Equal(t, 12.0, edited.Price)
	assert.Equal(t, []string{storage.MenuImages + "/old.png"}, blobs.removed)

	var stored models.MenuItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, edited.ImageFile, stored.ImageFile)
	assert.Equal(t, 12.0, stored.Price)
}

func TestDeleteMenuItemRemovesCartLines(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{})
	cart := NewCartService(db)
	ctx := context.Background()

	owner, restaurant := ownerWithRestaurant(t, db, "owner", "Mama Oliech")
	item := createMenuItem(t, db, restaurant, "Fish", 10)
	customer := actorOf(createUser(t, db, "alice", models.RoleUser))
	_, err := cart.AddLine(ctx, customer, item.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMenuItem(ctx, owner, item.ID))

	view, err := cart.View(ctx, customer)
	require.NoError(t, err)
	assert.True(t, view.Empty())

	_, err = svc.GetMenuItem(ctx, owner, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	blobs := &memoryBlobs{}
	svc := NewRestaurantService(db, nil, blobs)
	owner, restaurant := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	input := validProfile()
	input.Logo = &multipart.FileHeader{Filename: "logo.png", Size: 10}
	updated, err := svc.UpdateProfile(context.Background(), owner, input)
	require.NoError(t, err)
	assert.Equal(t, "Mama Oliech Kitchen", updated.Name)

	var stored models.Restaurant
	require.NoError(t, db.First(&stored, restaurant.ID).Error)
	assert.Equal(t, "10am-6pm", stored.OpeningHours)
	assert.Equal(t, updated.Logo, stored.Logo)
	assert.NotEqual(t, models.DefaultImage, stored.Logo)
	// the default logo is shared and never removed
	assert.Empty(t, blobs.removed)
}

func TestUpdateProfileValidation(t *testing.T) {
	db := newTestDB(t)
	blobs := &memoryBlobs{}
	svc := NewRestaurantService(db, nil, blobs)
	owner, _ := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	input := validProfile()
	input.Contact = "123"
	input.OpeningHours = "all day"
	_, err := svc.UpdateProfile(context.Background(), owner, input)
	require.ErrorIs(t, err, ErrValidation)
	fields := FieldErrors(err)
	assert.Contains(t, fields, "contact")
	assert.Contains(t, fields, "opening_hours")
	assert.Empty(t, blobs.saved)
}

func TestUpdateProfileAbortsWhenLogoCannotBeSaved(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{saveErr: errors.New("disk full")})
	owner, restaurant := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	input := validProfile()
	input.Logo = &multipart.FileHeader{Filename: "logo.png", Size: 10}
	_, err := svc.UpdateProfile(context.Background(), owner, input)
	require.ErrorIs(t, err, ErrStorage)

	var stored models.Restaurant
	require.NoError(t, db.First(&stored, restaurant.ID).Error)
	assert.Equal(t, "Mama Oliech", stored.Name)
}

func TestUpdateProfileRejectsNonImageLogo(t *testing.T) {
	db := newTestDB(t)
	svc := NewRestaurantService(db, nil, &memoryBlobs{saveErr: storage.ErrInvalidExtension})
	owner, _ := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	input := validProfile()
	input.Logo = &multipart.FileHeader{Filename: "logo.gif", Size: 10}
	_, err := svc.UpdateProfile(context.Background(), owner, input)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "logo", errorField(err))
}

func TestUpdateProfileRemovesLogoWhenUpdateFails(t *testing.T) {
	db := newTestDB(t)
	blobs := &memoryBlobs{}
	svc := NewRestaurantService(db, nil, blobs)
	owner, _ := ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	err := db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("connection reset"))
	})
	require.NoError(t, err)

	input := validProfile()
	input.Logo = &multipart.FileHeader{Filename: "logo.png", Size: 10}
	_, err = svc.UpdateProfile(context.Background(), owner, input)
	require.ErrorIs(t, err, ErrStorage)

	require.Len(t, blobs.saved, 1)
	assert.Equal(t, blobs.saved, blobs.removed)
}
