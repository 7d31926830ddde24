package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxStatusLength = 20

// OrderService is the owner side of orders. Every query is scoped to the owner's restaurant.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type PopularItem struct {
	MenuItemID uint
	Name       string
	OrderCount int64
}

type DailySales struct {
	Date  string
	Total float64
}

type HourlyOrders struct {
	Hour       int
	OrderCount int
}

type CustomerOrders struct {
	CustomerID uint
	Username   string
	OrderCount int64
}

type Analytics struct {
	Restaurant        models.Restaurant
	TotalOrders       int64
	TotalSales        float64
	AverageOrderValue float64
	PopularItems      []PopularItem
	DailySales        []DailySales
	HourlyOrders      []HourlyOrders
	Customers         []CustomerOrders
	RepeatCustomers   []CustomerOrders
}

type Dashboard struct {
	Restaurant        models.Restaurant
	Orders            []models.Order
	TotalOrders       int64
	AverageOrderValue float64
	PopularItems      []PopularItem
}

type SalesReport struct {
	Restaurant  models.Restaurant
	TotalSales  float64
	TotalOrders int64
}

type orderTotals struct {
	OrderCount   int64
	SalesTotal   float64
	AverageValue float64
}

func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func (s *OrderService) restaurantOrders(tx *gorm.DB, restaurantID uint) ([]models.Order, error) {
	var orders []models.Order
	err := tx.
		Where("restaurant_id = ?", restaurantID).
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Find(&orders).
		Error
	return orders, err
}

// ListOrders returns the orders of the owner's restaurant, newest first.
func (s *OrderService) ListOrders(ctx context.Context, owner Actor) (*models.Restaurant, []models.Order, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, nil, err
	}

	orders, err := s.restaurantOrders(s.DB.WithContext(ctx), restaurant.ID)
	if err != nil {
		return nil, nil, storageError("", err)
	}
	return restaurant, orders, nil
}

func (s *OrderService) scopedOrder(tx *gorm.DB, restaurantID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := tx.
		Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		Preload("Customer").
		Preload("OrderItems").
		First(&order).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found.")
		}
		return nil, storageError("", err)
	}
	return &order, nil
}

// GetOrder returns one order of the owner's restaurant. Orders of other restaurants are
// reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, owner Actor, orderID uint) (*models.Order, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}
	return s.scopedOrder(s.DB.WithContext(ctx), restaurant.ID, orderID)
}

// UpdateStatus sets the free-text status of an order of the owner's restaurant.
func (s *OrderService) UpdateStatus(ctx context.Context, owner Actor, orderID uint, status string) (*models.Order, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, validationError("status", "This field is required.")
	}
	if len([]rune(status)) > maxStatusLength {
		return nil, validationError("status", "Field cannot be longer than 20 characters.")
	}

	var order *models.Order
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err = s.scopedOrder(tx, restaurant.ID, orderID)
		if err != nil {
			return err
		}
		if err := tx.Model(order).Update("status", status).Error; err != nil {
			return storageError("", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) totals(tx *gorm.DB, restaurantID uint) (orderTotals, error) {
	var totals orderTotals
	err := tx.Model(&models.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total), 0) AS sales_total, COALESCE(AVG(total), 0) AS average_value").
		Where("restaurant_id = ?", restaurantID).
		Scan(&totals).
		Error
	if err != nil {
		return totals, err
	}
	totals.SalesTotal = cents(totals.SalesTotal)
	totals.AverageValue = cents(totals.AverageValue)
	return totals, nil
}

// popularItems counts, per menu item, the distinct orders of the restaurant that contain it.
func (s *OrderService) popularItems(tx *gorm.DB, restaurantID uint) ([]PopularItem, error) {
	items := []PopularItem{}
	err := tx.Table("order_items").
		Select("order_items.menu_item_id, MAX(order_items.name) AS name, COUNT(DISTINCT order_items.order_id) AS order_count").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND orders.deleted_at IS NULL AND order_items.deleted_at IS NULL", restaurantID).
		Group("order_items.menu_item_id").
		Order("order_count DESC, order_items.menu_item_id").
		Scan(&items).
		Error
	return items, err
}

func (s *OrderService) customers(tx *gorm.DB, restaurantID uint, repeatOnly bool) ([]CustomerOrders, error) {
	out := []CustomerOrders{}
	q := tx.Table("orders").
		Select("orders.customer_id, users.username, COUNT(orders.id) AS order_count").
		Joins("JOIN users ON users.id = orders.customer_id").
		Where("orders.restaurant_id = ? AND orders.deleted_at IS NULL", restaurantID).
		Group("orders.customer_id, users.username")
	if repeatOnly {
		q = q.Having("COUNT(orders.id) > 1")
	}
	err := q.Order("order_count DESC, orders.customer_id").Scan(&out).Error
	return out, err
}

// trends buckets orders by UTC calendar day (sales sum) and by UTC hour (order count).
func trends(orders []models.Order) ([]DailySales, []HourlyOrders) {
	byDay := map[string]decimal.Decimal{}
	byHour := map[int]int{}
	for _, order := range orders {
		at := order.CreatedAt.UTC()
		day := at.Format(time.DateOnly)
		byDay[day] = byDay[day].Add(decimal.NewFromFloat(order.Total))
		byHour[at.Hour()]++
	}

	daily := make([]DailySales, 0, len(byDay))
	for day, total := range byDay {
		daily = append(daily, DailySales{Date: day, Total: total.Round(2).InexactFloat64()})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	hourly := make([]HourlyOrders, 0, len(byHour))
	for hour, count := range byHour {
		hourly = append(hourly, HourlyOrders{Hour: hour, OrderCount: count})
	}
	sort.Slice(hourly, func(i, j int) bool { return hourly[i].Hour < hourly[j].Hour })

	return daily, hourly
}

// Analytics computes the sales aggregates of the owner's restaurant.
func (s *OrderService) Analytics(ctx context.Context, owner Actor) (*Analytics, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	totals, err := s.totals(db, restaurant.ID)
	if err != nil {
		return nil, storageError("", err)
	}
	popular, err := s.popularItems(db, restaurant.ID)
	if err != nil {
		return nil, storageError("", err)
	}

	var orders []models.Order
	err = db.Select("id", "created_at", "total").Where("restaurant_id = ?", restaurant.ID).Find(&orders).Error
	if err != nil {
		return nil, storageError("", err)
	}
	daily, hourly := trends(orders)

	customers, err := s.customers(db, restaurant.ID, false)
	if err != nil {
		return nil, storageError("", err)
	}
	repeat, err := s.customers(db, restaurant.ID, true)
	if err != nil {
		return nil, storageError("", err)
	}

	return &Analytics{
		Restaurant:        *restaurant,
		TotalOrders:       totals.OrderCount,
		TotalSales:        totals.SalesTotal,
		AverageOrderValue: totals.AverageValue,
		PopularItems:      popular,
		DailySales:        daily,
		HourlyOrders:      hourly,
		Customers:         customers,
		RepeatCustomers:   repeat,
	}, nil
}

func (s *OrderService) Dashboard(ctx context.Context, owner Actor) (*Dashboard, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	orders, err := s.restaurantOrders(db, restaurant.ID)
	if err != nil {
		return nil, storageError("", err)
	}
	totals, err := s.totals(db, restaurant.ID)
	if err != nil {
		return nil, storageError("", err)
	}
	popular, err := s.popularItems(db, restaurant.ID)
	if err != nil {
		return nil, storageError("", err)
	}

	return &Dashboard{
		Restaurant:        *restaurant,
		Orders:            orders,
		TotalOrders:       totals.OrderCount,
		AverageOrderValue: totals.AverageValue,
		PopularItems:      popular,
	}, nil
}

func (s *OrderService) SalesReport(ctx context.Context, owner Actor) (*SalesReport, error) {
	restaurant, err := restaurantByOwner(ctx, s.DB, owner)
	if err != nil {
		return nil, err
	}

	totals, err := s.totals(s.DB.WithContext(ctx), restaurant.ID)
	if err != nil {
		return nil, storageError("", err)
	}
	return &SalesReport{
		Restaurant:  *restaurant,
		TotalSales:  totals.SalesTotal,
		TotalOrders: totals.OrderCount,
	}, nil
}
