package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registration(username string) RegisterInput {
	return RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	}
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil, &memoryBlobs{})

	user, err := svc.Register(context.Background(), registration(" alice "), models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, testPassword, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(testPassword)))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil, &memoryBlobs{})
	ctx := context.Background()

	_, err := svc.Register(ctx, registration("alice"), models.RoleUser)
	require.NoError(t, err)

	input := registration("alice")
	input.Email = "other@example.com"
	_, err = svc.Register(ctx, input, models.RoleUser)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "username", errorField(err))

	input = registration("bob")
	input.Email = "alice@example.com"
	_, err = svc.Register(ctx, input, models.RoleUser)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "email", errorField(err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAccountService(newTestDB(t), nil, &memoryBlobs{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:        "al",
		Email:           "not-an-email",
		Password:        "123",
		ConfirmPassword: "456",
	}, models.RoleUser)
	require.ErrorIs(t, err, ErrValidation)

	fields := FieldErrors(err)
	for _, field := range []string{"username", "email", "password", "confirm_password"} {
		assert.Contains(t, fields, field)
	}
}

func TestRegisterRejectsOwnerRole(t *testing.T) {
	svc := NewAccountService(newTestDB(t), nil, &memoryBlobs{})

	_, err := svc.Register(context.Background(), registration("alice"), models.RoleOwner)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil, &memoryBlobs{})

	user, restaurant, err := svc.RegisterOwner(context.Background(), OwnerRegisterInput{
		Username:        "owner",
		Email:           "owner@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		RestaurantName:  "Mama Oliech",
		Contact:         "0712345678",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, user.Role)
	assert.Equal(t, user.ID, restaurant.OwnerID)
	assert.Equal(t, models.DefaultImage, restaurant.Logo)

	restaurants := NewRestaurantService(db, nil, &memoryBlobs{})
	owned, err := restaurants.RestaurantByOwner(context.Background(), Actor{UserID: user.ID, Role: user.Role})
	require.NoError(t, err)
	assert.Equal(t, restaurant.ID, owned.ID)
}

func TestRegisterOwnerIsAtomic(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil, &memoryBlobs{})
	createUser(t, db, "taken", models.RoleUser)

	_, _, err := svc.RegisterOwner(context.Background(), OwnerRegisterInput{
		Username:        "taken",
		Email:           "fresh@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		RestaurantName:  "Mama Oliech",
		Contact:         "0712345678",
	})
	require.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil, &memoryBlobs{})
	ctx := context.Background()
	alice := createUser(t, db, "alice", models.RoleUser)

	user, err := svc.Authenticate(ctx, LoginInput{Email: "alice@example.com", Password: testPassword}, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	user, err = svc.Authenticate(ctx, LoginInput{Email: "alice@example.com", Password: testPassword}, "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-one"}, models.RoleUser)
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, msgInvalidCredentials, Message(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, LoginInput{Email: "nobody@example.com", Password: testPassword}, models.RoleUser)
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, msgInvalidCredentials, Message(err))
	})

	t.Run("other role", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, LoginInput{Email: "alice@example.com", Password: testPassword}, models.RoleOwner)
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, msgInvalidCredentials, Message(err))
	})
}

func TestProfileRequiresLogin(t *testing.T) {
	svc := NewAccountService(newTestDB(t), nil, &memoryBlobs{})

	_, err := svc.Profile(context.Background(), Actor{})
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAccountProfile(t *testing.T) {
	db := newTestDB(t)
	blobs := &memoryBlobs{}
	svc := NewAccountService(db, nil, blobs)
	ctx := context.Background()
	alice := createUser(t, db, "alice", models.RoleUser)
	createUser(t, db, "bob", models.RoleUser)

	t.Run("username taken", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, actorOf(alice), ProfileInput{Username: "bob", Email: "alice@example.com"})
		require.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "username", errorField(err))
	})

	t.Run("password mismatch", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, actorOf(alice), ProfileInput{
			Username:        "alice",
			Email:           "alice@example.com",
			Password:        "newpass1",
			ConfirmPassword: "newpass2",
		})
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "confirm_password", errorField(err))
	})

	t.Run("new password and picture", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, actorOf(alice), ProfileInput{
			Username:        "alicia",
			Email:           "alicia@example.com",
			Password:        "newpass1",
			ConfirmPassword: "newpass1",
			Picture:         &multipart.FileHeader{Filename: "me.jpg", Size: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, "alicia", updated.Username)
		assert.Len(t, blobs.saved, 1)

		_, err = svc.Authenticate(ctx, LoginInput{Email: "alicia@example.com", Password: "newpass1"}, models.RoleUser)
		assert.NoError(t, err)
		_, err = svc.Authenticate(ctx, LoginInput{Email: "alicia@example.com", Password: testPassword}, models.RoleUser)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("keeps password when blank", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, actorOf(alice), ProfileInput{Username: "alicia", Email: "alicia@example.com"})
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, LoginInput{Email: "alicia@example.com", Password: "newpass1"}, "")
		assert.NoError(t, err)
	})
}

func TestListUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccountService(db, nil, &memoryBlobs{})
	ctx := context.Background()

	admin := createUser(t, db, "root", models.RoleAdmin)
	customer := createUser(t, db, "alice", models.RoleUser)
	ownerWithRestaurant(t, db, "owner", "Mama Oliech")

	_, err := svc.ListUsers(ctx, actorOf(customer))
	assert.ErrorIs(t, err, ErrWrongRole)

	overview, err := svc.ListUsers(ctx, actorOf(admin))
	require.NoError(t, err)
	assert.Len(t, overview.Users, 3)
	require.Len(t, overview.Restaurants, 1)
	assert.Equal(t, "owner", overview.Restaurants[0].Owner.Username)
}
