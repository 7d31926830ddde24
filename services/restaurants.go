package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/storage"
	"gorm.io/gorm"
)

// BlobStore keeps uploaded files by bucket and generated name.
type BlobStore interface {
	Save(bucket string, file *multipart.FileHeader) (string, error)
	Remove(bucket, name string) error
}

// CacheInvalidator drops cached catalog listings.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type RestaurantProfileInput struct {
	Name         string                `form:"name" validate:"required,min=3,max=120"`
	Contact      string                `form:"contact" validate:"required,min=10,max=15"`
	Address      string                `form:"address" validate:"required,min=10,max=150"`
	OpeningHours string                `form:"opening_hours" validate:"required,oneof=9am-5pm 10am-6pm 11am-7pm 12pm-8pm"`
	Logo         *multipart.FileHeader `form:"-" validate:"-"`
}

type MenuItemInput struct {
	Name        string                `form:"name" validate:"required,max=100"`
	Description string                `form:"description" validate:"max=500"`
	Price       float64               `form:"price" validate:"min=0.01,max=1000000"`
	Category    string                `form:"category" validate:"required,max=50"`
	Image       *multipart.FileHeader `form:"-" validate:"-"`
}

func (in *RestaurantProfileInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Address = strings.TrimSpace(in.Address)
}

func (in *MenuItemInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
}

type RestaurantService struct {
	DB      *gorm.DB
	Catalog CacheInvalidator
	Blobs   BlobStore
}

func NewRestaurantService(db *gorm.DB, catalog CacheInvalidator, blobs BlobStore) *RestaurantService {
	return &RestaurantService{DB: db, Catalog: catalog, Blobs: blobs}
}

// invalidateCatalog drops cached listings after a restaurant or menu write. Cache
// failures are only logged.
func invalidateCatalog(ctx context.Context, catalog CacheInvalidator) {
	if catalog == nil {
		return
	}
	if err := catalog.Invalidate(ctx); err != nil {
		log.Printf("catalog cache: invalidate: %v", err)
	}
}

// saveUpload stores an optional file. An empty name means nothing was uploaded.
func saveUpload(blobs BlobStore, bucket, field string, file *multipart.FileHeader) (string, error) {
	if file == nil || file.Filename == "" {
		return "", nil
	}
	name, err := blobs.Save(bucket, file)
	switch {
	case err == nil:
		return name, nil
	case errors.Is(err, storage.ErrInvalidExtension):
		return "", validationError(field, "Images only!")
	case errors.Is(err, storage.ErrTooLarge):
		return "", validationError(field, "File is too large.")
	default:
		return "", storageError("Failed to save the uploaded file. Please try again.", err)
	}
}

// discardUpload removes a file written for a change that did not commit.
func discardUpload(blobs BlobStore, bucket, name string) {
	if name == "" || name == models.DefaultImage {
		return
	}
	if err := blobs.Remove(bucket, name); err != nil {
		log.Printf("uploads: cannot remove %s/%s: %v", bucket, name, err)
	}
}

func (s *RestaurantService) RestaurantByOwner(ctx context.Context, owner Actor) (*models.Restaurant, error) {
	return restaurantByOwner(ctx, s.DB, owner)
}

// UpdateProfile changes the owner's restaurant details. A new logo is written before the
// row is updated and removed again when the update fails.
func (s *RestaurantService) UpdateProfile(ctx context.Context, owner Actor, input RestaurantProfileInput) (*models.Restaurant, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	logo, err := saveUpload(s.Blobs, storage.Logos, "logo", input.Logo)
	if err != nil {
		return nil, err
	}

	oldLogo := restaurant.Logo
	updates := map[string]any{
		"name":          input.Name,
		"contact":       input.Contact,
		"address":       input.Address,
		"opening_hours": input.OpeningHours,
	}
	if logo != "" {
		updates["logo"] = logo
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(restaurant).Updates(updates).Error
	})
	if err != nil {
		discardUpload(s.Blobs, storage.Logos, logo)
		return nil, storageError("", err)
	}
	if logo != "" {
		discardUpload(s.Blobs, storage.Logos, oldLogo)
		restaurant.Logo = logo
	}
	restaurant.Name = input.Name
	restaurant.Contact = input.Contact
	restaurant.Address = input.Address
	restaurant.OpeningHours = input.OpeningHours

	invalidateCatalog(ctx, s.Catalog)
	return restaurant, nil
}

func (s *RestaurantService) ListMenu(ctx context.Context, owner Actor) (*models.Restaurant, []models.MenuItem, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, nil, err
	}

	var items []models.MenuItem
	err = s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurant.ID).Order("id").Find(&items).Error
	if err != nil {
		return nil, nil, storageError("", err)
	}
	return restaurant, items, nil
}

func (s *RestaurantService) AddMenuItem(ctx context.Context, owner Actor, input MenuItemInput) (*models.MenuItem, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	image, err := saveUpload(s.Blobs, storage.MenuImages, "image", input.Image)
	if err != nil {
		return nil, err
	}

	item := models.MenuItem{
		Name:         input.Name,
		Description:  input.Description,
		Price:        cents(input.Price),
		Category:     input.Category,
		ImageFile:    models.DefaultImage,
		RestaurantID: restaurant.ID,
	}
	if image != "" {
		item.ImageFile = image
	}

	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		discardUpload(s.Blobs, storage.MenuImages, image)
		return nil, storageError("", err)
	}

	invalidateCatalog(ctx, s.Catalog)
	return &item, nil
}

// ownedItem loads a menu item of restaurantID. Items of other restaurants are not found.
func ownedItem(tx *gorm.DB, restaurantID, itemID uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := tx.Where("id = ? AND restaurant_id = ?", itemID, restaurantID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Menu item not found.")
		}
		return nil, storageError("", err)
	}
	return &item, nil
}

func (s *RestaurantService) GetMenuItem(ctx context.Context, owner Actor, itemID uint) (*models.MenuItem, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}
	return ownedItem(s.DB.WithContext(ctx), restaurant.ID, itemID)
}

func (s *RestaurantService) EditMenuItem(ctx context.Context, owner Actor, itemID uint, input MenuItemInput) (*models.MenuItem, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	item, err := ownedItem(db, restaurant.ID, itemID)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	image, err := saveUpload(s.Blobs, storage.MenuImages, "image", input.Image)
	if err != nil {
		return nil, err
	}

	oldImage := item.ImageFile
	updates := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"price":       cents(input.Price),
		"category":    input.Category,
	}
	if image != "" {
		updates["image_file"] = image
	}

	if err := db.Model(item).Updates(updates).Error; err != nil {
		discardUpload(s.Blobs, storage.MenuImages, image)
		return nil, storageError("", err)
	}
	if image != "" {
		discardUpload(s.Blobs, storage.MenuImages, oldImage)
		item.ImageFile = image
	}
	item.Name = input.Name
	item.Description = input.Description
	item.Price = cents(input.Price)
	item.Category = input.Category

	invalidateCatalog(ctx, s.Catalog)
	return item, nil
}

// DeleteMenuItem removes the item and every cart line that references it. Order items keep
// their snapshot.
func (s *RestaurantService) DeleteMenuItem(ctx context.Context, owner Actor, itemID uint) error {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return err
	}

	var image string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := ownedItem(tx, restaurant.ID, itemID)
		if err != nil {
			return err
		}
		image = item.ImageFile

		if err := tx.Unscoped().Where("menu_item_id = ?", item.ID).Delete(&models.CartItem{}).Error; err != nil {
			return storageError("", err)
		}
		if err := tx.Delete(item).Error; err != nil {
			return storageError("", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	discardUpload(s.Blobs, storage.MenuImages, image)
	invalidateCatalog(ctx, s.Catalog)
	return nil
}
