package services

import (
	"context"
	"errors"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgInvalidQuantity = "Invalid quantity!"
	msgEmptyCart       = "Your cart is empty!"
	msgOtherRestaurant = "Your cart already holds items from another restaurant. Check out or empty it first."
	msgCartChanged     = "Your cart changed while checking out. Please review it and try again."
)

type CartService struct {
	DB *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{DB: db}
}

// CartView is the cart of one customer. Total is derived on every read.
type CartView struct {
	Lines []models.CartItem
	Total float64
}

func (v *CartView) Empty() bool {
	return len(v.Lines) == 0
}

// lineTotal sums price × quantity in decimal and rounds to cents.
func lineTotal(lines []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		price := decimal.NewFromFloat(line.MenuItem.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

func (s *CartService) lines(tx *gorm.DB, userID uint) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := tx.
		Where("user_id = ?", userID).
		Preload("MenuItem").
		Order("id").
		Find(&lines).
		Error
	return lines, err
}

// AddLine puts quantity of a menu item in the actor's cart, merging with an existing line.
func (s *CartService) AddLine(ctx context.Context, actor Actor, menuItemID uint, quantity int) (*models.CartItem, error) {
	if err := requireLogin(actor); err != nil {
		return nil, err
	}

	var line models.CartItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, menuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Menu item not found.")
			}
			return storageError("", err)
		}

		if quantity < 1 {
			return validationError("quantity", msgInvalidQuantity)
		}

		// carts are single-restaurant
		var others int64
		err := tx.Model(&models.CartItem{}).
			Joins("JOIN menu_items ON menu_items.id = cart_items.menu_item_id").
			Where("cart_items.user_id = ? AND menu_items.restaurant_id <> ?", actor.UserID, item.RestaurantID).
			Count(&others).
			Error
		if err != nil {
			return storageError("", err)
		}
		if others > 0 {
			return conflict("", msgOtherRestaurant)
		}

		err = tx.Where("user_id = ? AND menu_item_id = ?", actor.UserID, item.ID).First(&line).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return storageError("", err)
			}
			line = models.CartItem{UserID: actor.UserID, MenuItemID: item.ID, Quantity: quantity}
			if err := tx.Create(&line).Error; err != nil {
				return storageError("", err)
			}
			line.MenuItem = item
			return nil
		}

		err = tx.Model(&line).Update("quantity", gorm.Expr("quantity + ?", quantity)).Error
		if err != nil {
			return storageError("", err)
		}
		if err := tx.First(&line, line.ID).Error; err != nil {
			return storageError("", err)
		}
		line.MenuItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// View returns the actor's cart lines and their total.
func (s *CartService) View(ctx context.Context, actor Actor) (*CartView, error) {
	if err := requireLogin(actor); err != nil {
		return nil, err
	}

	lines, err := s.lines(s.DB.WithContext(ctx), actor.UserID)
	if err != nil {
		return nil, storageError("", err)
	}
	return &CartView{Lines: lines, Total: lineTotal(lines).InexactFloat64()}, nil
}

// ownedLine loads a cart line and checks it belongs to actor.
func ownedLine(tx *gorm.DB, actor Actor, cartItemID uint) (*models.CartItem, error) {
	var line models.CartItem
	if err := tx.First(&line, cartItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Cart item not found.")
		}
		return nil, storageError("", err)
	}
	if line.UserID != actor.UserID {
		return nil, forbidden("This cart item does not belong to you.")
	}
	return &line, nil
}

// UpdateLine sets the quantity of one of the actor's cart lines.
func (s *CartService) UpdateLine(ctx context.Context, actor Actor, cartItemID uint, quantity int) error {
	if err := requireLogin(actor); err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := ownedLine(tx, actor, cartItemID)
		if err != nil {
			return err
		}
		if quantity < 1 {
			return validationError("quantity", msgInvalidQuantity)
		}
		if err := tx.Model(line).Update("quantity", quantity).Error; err != nil {
			return storageError("", err)
		}
		return nil
	})
}

// RemoveLine deletes one of the actor's cart lines.
func (s *CartService) RemoveLine(ctx context.Context, actor Actor, cartItemID uint) error {
	if err := requireLogin(actor); err != nil {
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := ownedLine(tx, actor, cartItemID)
		if err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(line).Error; err != nil {
			return storageError("", err)
		}
		return nil
	})
}

// Checkout turns every cart line of the actor into one order and empties the cart.
// Order creation and cart deletion commit or roll back together.
func (s *CartService) Checkout(ctx context.Context, actor Actor) (*models.Order, error) {
	if err := requireLogin(actor); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := s.lines(tx, actor.UserID)
		if err != nil {
			return storageError("", err)
		}
		if len(lines) == 0 {
			return validationError("", msgEmptyCart)
		}

		restaurantID := lines[0].MenuItem.RestaurantID
		ids := make([]uint, 0, len(lines))
		orderItems := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.MenuItem.ID == 0 {
				return conflict("", msgCartChanged)
			}
			if line.MenuItem.RestaurantID != restaurantID {
				return conflict("", msgOtherRestaurant)
			}
			ids = append(ids, line.ID)
			orderItems = append(orderItems, models.OrderItem{
				MenuItemID: line.MenuItemID,
				Name:       line.MenuItem.Name,
				Price:      line.MenuItem.Price,
				Quantity:   line.Quantity,
			})
		}

		order = models.Order{
			CustomerID:   actor.UserID,
			RestaurantID: restaurantID,
			Status:       models.OrderStatusProcessing,
			Total:        lineTotal(lines).InexactFloat64(),
			OrderItems:   orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return storageError("", err)
		}

		// a concurrent checkout that already consumed these lines makes the count differ
		result := tx.Unscoped().
			Where("user_id = ? AND id IN ?", actor.UserID, ids).
			Delete(&models.CartItem{})
		if result.Error != nil {
			return storageError("", result.Error)
		}
		if result.RowsAffected != int64(len(ids)) {
			return conflict("", msgCartChanged)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderHistory lists the actor's own orders, newest first.
func (s *CartService) OrderHistory(ctx context.Context, actor Actor) ([]models.Order, error) {
	if err := requireLogin(actor); err != nil {
		return nil, err
	}

	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Where("customer_id = ?", actor.UserID).
		Preload("Restaurant").
		Preload("OrderItems").
		Order("created_at DESC, id DESC").
		Find(&orders).
		Error
	if err != nil {
		return nil, storageError("", err)
	}
	return orders, nil
}

// LatestOrder returns the actor's most recent order.
func (s *CartService) LatestOrder(ctx context.Context, actor Actor) (*models.Order, error) {
	if err := requireLogin(actor); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.DB.WithContext(ctx).
		Where("customer_id = ?", actor.UserID).
		Preload("Restaurant").
		Order("created_at DESC, id DESC").
		First(&order).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("No orders yet.")
		}
		return nil, storageError("", err)
	}
	return &order, nil
}
