package templates

import (
	"bytes"
	"testing"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pages = []string{
	"error.html",
	"home.html",
	"menu.html",
	"search.html",
	"restaurant_menu.html",
	"user/register.html",
	"user/login.html",
	"user/dashboard.html",
	"user/profile.html",
	"user/cart.html",
	"user/checkout.html",
	"user/order_success.html",
	"user/order_history.html",
	"owner/register.html",
	"owner/login.html",
	"owner/dashboard.html",
	"owner/menu.html",
	"owner/edit_menu_item.html",
	"owner/orders.html",
	"owner/update_order.html",
	"owner/profile.html",
	"owner/reports.html",
	"owner/analytics.html",
	"admin/admin.html",
	"admin/dashboard.html",
}

func TestLoadDefinesEveryPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, page := range pages {
		assert.NotNil(t, tmpl.Lookup(page), page)
	}
}

func TestRenderHome(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	restaurant := models.Restaurant{Name: "Mama Oliech", Logo: models.DefaultImage, OpeningHours: "9am-5pm"}
	restaurant.ID = 3
	item := models.MenuItem{Name: "Fish & chips", Price: 12.5, Category: "Mains", ImageFile: "fish.png"}
	item.ID = 9

	var out bytes.Buffer
	err = tmpl.ExecuteTemplate(&out, "home.html", map[string]any{
		"Query":       "",
		"Notice":      "",
		"Flashes":     nil,
		"Actor":       services.Actor{UserID: 1, Role: models.RoleUser},
		"Restaurants": []models.Restaurant{restaurant},
		"MenuItems":   []models.MenuItem{item},
	})
	require.NoError(t, err)

	html := out.String()
	assert.Contains(t, html, `href="/user/restaurant/3/menu"`)
	assert.Contains(t, html, "/uploads/logos/default.jpg")
	assert.Contains(t, html, "/uploads/menu_images/fish.png")
	assert.Contains(t, html, "Fish &amp; chips")
	assert.Contains(t, html, "12.50")
	assert.Contains(t, html, `action="/user/cart/add/9"`)
	assert.Contains(t, html, `href="/user/cart"`)
}

func TestFuncs(t *testing.T) {
	money := funcs["money"].(func(float64) string)
	assert.Equal(t, "0.30", money(0.1+0.2))

	upload := funcs["upload"].(func(string, string) string)
	assert.Equal(t, "/uploads/logos/default.jpg", upload("logos", ""))

	date := funcs["date"].(func(time.Time) string)
	assert.Equal(t, "2024-03-01 18:05", date(time.Date(2024, 3, 1, 21, 5, 0, 0, time.FixedZone("EAT", 3*60*60))))

	fieldError := funcs["fieldError"].(func(map[string]string, string) string)
	assert.Equal(t, "required", fieldError(map[string]string{"name": "required"}, "name"))
	assert.Empty(t, fieldError(nil, "name"))
}
