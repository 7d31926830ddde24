package routers

import (
	"net/http"
	"time"

	"github.com/The-Grit-Agencies/food-court-g4/config"
	"github.com/The-Grit-Agencies/food-court-g4/handlers"
	"github.com/The-Grit-Agencies/food-court-g4/jwt"
	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/The-Grit-Agencies/food-court-g4/storage"
	"github.com/The-Grit-Agencies/food-court-g4/templates"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionName = "foodcourt"

func SetupRouters(cfg config.Config, db *gorm.DB, rdb *redis.Client, keys *jwt.Keys) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, err
	}

	blobs := storage.NewLocalStore(cfg.Server.UploadDir, cfg.Server.MaxUploadBytes)
	catalog := services.NewCatalogService(db, rdb)
	cart := services.NewCartService(db)
	orders := services.NewOrderService(db)
	restaurants := services.NewRestaurantService(db, catalog, blobs)
	accounts := services.NewAccountService(db, catalog, blobs)
	sess := &handlers.Sessions{
		DB:   db,
		Keys: keys,
		TTL:  time.Duration(cfg.JWT.TTLHours) * time.Hour,
	}

	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = 8 << 20

	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	store.Options(middleware.SessionOptions(false))
	router.Use(
		middleware.CORSMiddleware(cfg.Server.AllowOrigins),
		sessions.Sessions(sessionName, store),
		middleware.AuthMiddleware(db, keys),
	)

	router.Static("/uploads", cfg.Server.UploadDir)

	router.GET("/health", func(context *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(context.Request.Context())
		}
		if err != nil {
			context.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		context.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// catalog, open to everyone
	router.GET("/", func(context *gin.Context) {
		handlers.HomeHandler(context, catalog)
	})
	router.GET("/user/menu", func(context *gin.Context) {
		handlers.MenuHandler(context, catalog)
	})
	router.GET("/search", func(context *gin.Context) {
		handlers.SearchHandler(context, catalog)
	})
	router.GET("/user/restaurant/:id/menu", func(context *gin.Context) {
		handlers.RestaurantMenuHandler(context, catalog)
	})

	// accounts
	router.GET("/user/register", handlers.RegisterPageHandler)
	router.POST("/user/register", func(context *gin.Context) {
		handlers.RegisterHandler(context, accounts)
	})
	router.GET("/user/login", handlers.LoginPageHandler)
	router.POST("/user/login", func(context *gin.Context) {
		handlers.LoginHandler(context, accounts, sess)
	})
	router.GET("/owner/register_owner", handlers.OwnerRegisterPageHandler)
	router.POST("/owner/register_owner", func(context *gin.Context) {
		handlers.OwnerRegisterHandler(context, accounts)
	})
	router.GET("/owner/login_owner", handlers.OwnerLoginPageHandler)
	router.POST("/owner/login_owner", func(context *gin.Context) {
		handlers.OwnerLoginHandler(context, accounts, sess)
	})
	router.GET("/admin", handlers.AdminPageHandler)
	router.GET("/admin/register_admin", handlers.AdminPageHandler)
	router.POST("/admin/register_admin", func(context *gin.Context) {
		handlers.AdminRegisterHandler(context, accounts)
	})
	router.GET("/admin/login_admin", handlers.AdminPageHandler)
	router.POST("/admin/login_admin", func(context *gin.Context) {
		handlers.AdminLoginHandler(context, accounts, sess)
	})

	// any logged-in actor
	loginRequired := router.Group("/")
	loginRequired.Use(middleware.CheckLoginMiddleware())
	{
		loginRequired.GET("/logout", func(context *gin.Context) {
			handlers.LogoutHandler(context, sess)
		})
		loginRequired.GET("/user/dashboard", func(context *gin.Context) {
			handlers.DashboardHandler(context, accounts)
		})
		loginRequired.GET("/user/profile", func(context *gin.Context) {
			handlers.ProfilePageHandler(context, accounts)
		})
		loginRequired.POST("/user/profile", func(context *gin.Context) {
			handlers.ProfileHandler(context, accounts)
		})
		loginRequired.POST("/user/cart/add/:id", func(context *gin.Context) {
			handlers.AddToCartHandler(context, cart)
		})
		loginRequired.GET("/user/cart", func(context *gin.Context) {
			handlers.ViewCartHandler(context, cart)
		})
		loginRequired.POST("/user/cart/update/:id", func(context *gin.Context) {
			handlers.UpdateCartHandler(context, cart)
		})
		loginRequired.POST("/user/cart/remove/:id", func(context *gin.Context) {
			handlers.RemoveFromCartHandler(context, cart)
		})
		loginRequired.GET("/user/checkout", func(context *gin.Context) {
			handlers.CheckoutPageHandler(context, cart)
		})
		loginRequired.POST("/user/checkout", func(context *gin.Context) {
			handlers.CheckoutHandler(context, cart)
		})
		loginRequired.GET("/user/order/success", func(context *gin.Context) {
			handlers.OrderSuccessHandler(context, cart)
		})
		loginRequired.GET("/user/order/history", func(context *gin.Context) {
			handlers.OrderHistoryHandler(context, cart)
		})
	}

	// restaurant owners
	ownerRequired := router.Group("/owner")
	ownerRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckRoleMiddleware(models.RoleOwner))
	{
		ownerRequired.GET("/owner_dashboard", func(context *gin.Context) {
			handlers.OwnerDashboardHandler(context, orders)
		})
		ownerRequired.GET("/menu", func(context *gin.Context) {
			handlers.OwnerMenuHandler(context, restaurants)
		})
		ownerRequired.POST("/menu", func(context *gin.Context) {
			handlers.AddMenuItemHandler(context, restaurants)
		})
		ownerRequired.GET("/menu/:id/edit", func(context *gin.Context) {
			handlers.EditMenuItemPageHandler(context, restaurants)
		})
		ownerRequired.POST("/menu/:id/edit", func(context *gin.Context) {
			handlers.EditMenuItemHandler(context, restaurants)
		})
		ownerRequired.POST("/menu/:id/delete", func(context *gin.Context) {
			handlers.DeleteMenuItemHandler(context, restaurants)
		})
		ownerRequired.GET("/orders", func(context *gin.Context) {
			handlers.OwnerOrdersHandler(context, orders)
		})
		ownerRequired.GET("/orders/:id/update", func(context *gin.Context) {
			handlers.UpdateOrderPageHandler(context, orders)
		})
		ownerRequired.POST("/orders/:id/update", func(context *gin.Context) {
			handlers.UpdateOrderHandler(context, orders)
		})
		ownerRequired.GET("/profile", func(context *gin.Context) {
			handlers.OwnerProfilePageHandler(context, restaurants)
		})
		ownerRequired.POST("/profile", func(context *gin.Context) {
			handlers.OwnerProfileHandler(context, restaurants)
		})
		ownerRequired.GET("/reports", func(context *gin.Context) {
			handlers.SalesReportHandler(context, orders)
		})
		ownerRequired.GET("/analytics", func(context *gin.Context) {
			handlers.AnalyticsHandler(context, orders)
		})
	}

	// administrators
	adminRequired := router.Group("/admin")
	adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckRoleMiddleware(models.RoleAdmin))
	{
		adminRequired.GET("/admin_dashboard", func(context *gin.Context) {
			handlers.GetUserListHandler(context, accounts)
		})
	}

	return router, nil
}
