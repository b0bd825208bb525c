package router

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mimoza-store/storefront-api/pkg/auth"
	"github.com/mimoza-store/storefront-api/pkg/cart"
)

var Router *gin.Engine

// Collaborators the handlers depend on, injected once at startup.
var (
	authService *auth.Service
	carts       *cart.Registry
)

func InitEngine() {
	Router = gin.Default()
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:19006", "https://loja.mimoza.com.br"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func InitializeRoutes(svc *auth.Service, registry *cart.Registry) {
	authService = svc
	carts = registry

	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		api.GET("/brands", GetBrands)
		api.GET("/categories", GetCategories)
		api.GET("/banners", GetBanners)

		products := api.Group("/products")
		{
			products.GET("", GetProducts)
			products.GET("/:id", GetProduct)

			admin := products.Group("")
			admin.Use(AuthMiddleware(), AdminMiddleware())
			{
				admin.POST("", CreateProduct)
				admin.PUT("/:id", UpdateProduct)
				admin.DELETE("/:id", DeleteProduct)
				admin.POST("/describe", DescribeProduct)
			}
		}

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", Register)
			authRoutes.POST("/login", Login)
			authRoutes.POST("/logout", Logout)
			authRoutes.GET("/session", CurrentSession)
			authRoutes.GET("/is-admin", IsAdmin)
		}

		cartRoutes := api.Group("/cart")
		{
			cartRoutes.GET("/:sessionId", GetCart)
			cartRoutes.POST("/:sessionId/items", AddToCart)
			cartRoutes.PUT("/:sessionId/items/:productId", UpdateCartItem)
			cartRoutes.DELETE("/:sessionId/items/:productId", RemoveFromCart)
			cartRoutes.DELETE("/:sessionId/clear", ClearCart)
			cartRoutes.PUT("/:sessionId/coupon", SetCoupon)
			cartRoutes.GET("/:sessionId/favorites", GetFavorites)
			cartRoutes.POST("/:sessionId/favorites/:productId", ToggleFavorite)
		}
	}
}
