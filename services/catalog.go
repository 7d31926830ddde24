package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	restaurantsKey = "catalog:restaurants"
	menuItemsKey   = "catalog:menu_items"
)

// CatalogService is the read side of restaurants and menus. Cache may be nil.
type CatalogService struct {
	DB    *gorm.DB
	Cache *redis.Client
}

func NewCatalogService(db *gorm.DB, rdb *redis.Client) *CatalogService {
	return &CatalogService{DB: db, Cache: rdb}
}

type Catalog struct {
	Restaurants []models.Restaurant
	MenuItems   []models.MenuItem
}

// ListAll returns every restaurant and every menu item.
func (s *CatalogService) ListAll(ctx context.Context) (*Catalog, error) {
	restaurants, err := cachedList(ctx, s.Cache, restaurantsKey, func() ([]models.Restaurant, error) {
		var out []models.Restaurant
		err := s.DB.WithContext(ctx).Order("id").Find(&out).Error
		return out, err
	}, func(r models.Restaurant) uint { return r.ID })
	if err != nil {
		return nil, storageError("", err)
	}

	items, err := cachedList(ctx, s.Cache, menuItemsKey, func() ([]models.MenuItem, error) {
		var out []models.MenuItem
		err := s.DB.WithContext(ctx).Order("id").Find(&out).Error
		return out, err
	}, func(m models.MenuItem) uint { return m.ID })
	if err != nil {
		return nil, storageError("", err)
	}

	return &Catalog{Restaurants: restaurants, MenuItems: items}, nil
}

// Search matches restaurant and menu item names case-insensitively. A blank query
// matches nothing.
func (s *CatalogService) Search(ctx context.Context, query string) (*Catalog, error) {
	result := &Catalog{Restaurants: []models.Restaurant{}, MenuItems: []models.MenuItem{}}
	query = strings.TrimSpace(query)
	if query == "" {
		return result, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	db := s.DB.WithContext(ctx)
	if err := db.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).Order("id").Find(&result.Restaurants).Error; err != nil {
		return nil, storageError("", err)
	}
	if err := db.Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).Order("id").Find(&result.MenuItems).Error; err != nil {
		return nil, storageError("", err)
	}
	return result, nil
}

// ItemsOf returns one restaurant with its menu.
func (s *CatalogService) ItemsOf(ctx context.Context, restaurantID uint) (*models.Restaurant, []models.MenuItem, error) {
	db := s.DB.WithContext(ctx)

	var restaurant models.Restaurant
	if err := db.First(&restaurant, restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFound("Restaurant not found.")
		}
		return nil, nil, storageError("", err)
	}

	var items []models.MenuItem
	if err := db.Where("restaurant_id = ?", restaurant.ID).Order("id").Find(&items).Error; err != nil {
		return nil, nil, storageError("", err)
	}
	return &restaurant, items, nil
}

// Invalidate drops the cached listings; called after every menu or restaurant write.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s == nil || s.Cache == nil {
		return nil
	}
	return s.Cache.Del(ctx, restaurantsKey, menuItemsKey).Err()
}

// emptyMarker stands in for an empty listing, since redis drops empty sorted sets.
// Real members are JSON objects and never equal it.
const emptyMarker = "[]"

// cachedList reads a sorted set of JSON members scored by id. On a miss or any cache
// error it loads from the database and refills the set.
func cachedList[T any](ctx context.Context, rdb *redis.Client, key string, load func() ([]T, error), id func(T) uint) ([]T, error) {
	if rdb != nil {
		if out, ok := readCache[T](ctx, rdb, key); ok {
			return out, nil
		}
	}

	out, err := load()
	if err != nil {
		return nil, err
	}

	if rdb != nil {
		writeCache(ctx, rdb, key, out, id)
	}
	return out, nil
}

func readCache[T any](ctx context.Context, rdb *redis.Client, key string) ([]T, bool) {
	members, err := rdb.ZRange(ctx, key, 0, -1).Result()
	if err != nil || len(members) == 0 {
		return nil, false
	}
	if len(members) == 1 && members[0] == emptyMarker {
		return []T{}, true
	}

	out := make([]T, 0, len(members))
	for _, member := range members {
		var v T
		if err := json.Unmarshal([]byte(member), &v); err != nil {
			log.Printf("catalog cache: cannot decode %s member: %v", key, err)
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func writeCache[T any](ctx context.Context, rdb *redis.Client, key string, items []T, id func(T) uint) {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			log.Printf("catalog cache: cannot encode %s member: %v", key, err)
			return
		}
		members = append(members, redis.Z{Score: float64(id(item)), Member: b})
	}
	if len(members) == 0 {
		members = append(members, redis.Z{Score: 0, Member: emptyMarker})
	}

	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.ZAdd(ctx, key, members...)
		return nil
	})
	if err != nil {
		log.Printf("catalog cache: cannot fill %s: %v", key, err)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
