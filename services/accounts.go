package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUsernameTaken      = "That username is taken. Please choose a different one."
	msgEmailTaken         = "That email is already registered. Please choose a different one."
)

type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=3,max=12"`
	Email           string `form:"email" validate:"required,email,max=120"`
	Password        string `form:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

type OwnerRegisterInput struct {
	Username        string `form:"username" validate:"required,min=3,max=12"`
	Email           string `form:"email" validate:"required,email,max=120"`
	Password        string `form:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	RestaurantName  string `form:"restaurant_name" validate:"required,min=3,max=120"`
	Contact         string `form:"contact" validate:"required,min=10,max=15"`
}

type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember"`
}

type ProfileInput struct {
	Username        string                `form:"username" validate:"required,min=3,max=12"`
	Email           string                `form:"email" validate:"required,email,max=120"`
	Password        string                `form:"password" validate:"omitempty,min=6,max=72"`
	ConfirmPassword string                `form:"confirm_password" validate:"eqfield=Password"`
	Picture         *multipart.FileHeader `form:"-" validate:"-"`
}

// AdminOverview is what the admin dashboard lists.
type AdminOverview struct {
	Users       []models.User
	Restaurants []models.Restaurant
}

type AccountService struct {
	DB      *gorm.DB
	Catalog CacheInvalidator
	Blobs   BlobStore
}

func NewAccountService(db *gorm.DB, catalog CacheInvalidator, blobs BlobStore) *AccountService {
	return &AccountService{DB: db, Catalog: catalog, Blobs: blobs}
}

// checkUnique reports a Conflict when username or email belongs to a user other than exceptID.
func checkUnique(tx *gorm.DB, username, email string, exceptID uint) error {
	var count int64
	err := tx.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).
		Error
	if err != nil {
		return storageError("", err)
	}
	if count > 0 {
		return conflict("username", msgUsernameTaken)
	}

	err = tx.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).
		Error
	if err != nil {
		return storageError("", err)
	}
	if count > 0 {
		return conflict("email", msgEmailTaken)
	}
	return nil
}

// createError maps a failed insert or update of a user row.
func createError(err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict("", "Username or email already registered.")
	}
	return storageError("", err)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", storageError("", err)
	}
	return string(hashed), nil
}

// Register creates a customer or admin account.
func (s *AccountService) Register(ctx context.Context, input RegisterInput, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, validationError("", "Unsupported account role.")
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, user.Username, user.Email, 0); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, createError(err)
	}
	return &user, nil
}

// RegisterOwner creates an owner account and its restaurant together.
func (s *AccountService) RegisterOwner(ctx context.Context, input OwnerRegisterInput) (*models.User, *models.Restaurant, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.RestaurantName = strings.TrimSpace(input.RestaurantName)
	input.Contact = strings.TrimSpace(input.Contact)
	if err := validateInput(input); err != nil {
		return nil, nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleOwner,
	}
	var restaurant models.Restaurant
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, user.Username, user.Email, 0); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		restaurant = models.Restaurant{
			Name:    input.RestaurantName,
			Contact: input.Contact,
			Logo:    models.DefaultImage,
			OwnerID: user.ID,
		}
		return tx.Create(&restaurant).Error
	})
	if err != nil {
		return nil, nil, createError(err)
	}

	invalidateCatalog(ctx, s.Catalog)
	return &user, &restaurant, nil
}

// Authenticate checks email and password. An empty role accepts any account; otherwise the
// account must have that role.
func (s *AccountService) Authenticate(ctx context.Context, input LoginInput, role string) (*models.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx).Where("email = ?", input.Email)
	if role != "" {
		db = db.Where("role = ?", role)
	}

	var user models.User
	if err := db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("", msgInvalidCredentials)
		}
		return nil, storageError("", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, validationError("", msgInvalidCredentials)
	}
	return &user, nil
}

func (s *AccountService) Profile(ctx context.Context, actor Actor) (*models.User, error) {
	if err := requireLogin(actor); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User not found.")
		}
		return nil, storageError("", err)
	}
	return &user, nil
}

// UpdateProfile changes the actor's username, email, optional password and optional picture.
// The picture is written first and removed again if the row update fails.
func (s *AccountService) UpdateProfile(ctx context.Context, actor Actor, input ProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"username": input.Username,
		"email":    input.Email,
	}
	if input.Password != "" {
		hashed, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}

	picture, err := saveUpload(s.Blobs, storage.ProfilePics, "profile_picture", input.Picture)
	if err != nil {
		return nil, err
	}
	if picture != "" {
		updates["profile_picture"] = picture
	}

	oldPicture := user.ProfilePicture
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, input.Username, input.Email, user.ID); err != nil {
			return err
		}
		return tx.Model(user).Updates(updates).Error
	})
	if err != nil {
		discardUpload(s.Blobs, storage.ProfilePics, picture)
		return nil, createError(err)
	}
	if picture != "" {
		discardUpload(s.Blobs, storage.ProfilePics, oldPicture)
		user.ProfilePicture = picture
	}
	user.Username = input.Username
	user.Email = input.Email
	return user, nil
}

// ListUsers returns every account and restaurant. Admin only.
func (s *AccountService) ListUsers(ctx context.Context, admin Actor) (*AdminOverview, error) {
	if err := requireRole(admin, models.RoleAdmin); err != nil {
		return nil, err
	}

	overview := &AdminOverview{}
	db := s.DB.WithContext(ctx)
	if err := db.Order("id").Find(&overview.Users).Error; err != nil {
		return nil, storageError("", err)
	}
	if err := db.Preload("Owner").Order("id").Find(&overview.Restaurants).Error; err != nil {
		return nil, storageError("", err)
	}
	return overview, nil
}
