// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/freshkart/grocery-backend/internal/config"
	"github.com/freshkart/grocery-backend/internal/handlers"
	"github.com/freshkart/grocery-backend/internal/middleware"
	"github.com/freshkart/grocery-backend/internal/services"
	"github.com/freshkart/grocery-backend/internal/utils"
)

func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	authService := services.NewAuthService(db, cfg)
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	accountService := services.NewAccountService(db)
	couponService := services.NewCouponService(db)
	orderService := services.NewOrderService(db, cfg, couponService)

	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	accountHandler := handlers.NewAccountHandler(accountService)
	couponHandler := handlers.NewCouponHandler(couponService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(catalogService, couponService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	r.Use(middleware.GeneralRateLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.OptionalAuth(), authHandler.Me)
		}

		// Public storefront reads.
		v1.GET("/categories", catalogHandler.ListCategories)
		v1.GET("/categories/:slug", catalogHandler.GetCategoryBySlug)
		v1.GET("/products", catalogHandler.ListProducts)
		v1.GET("/products/featured", catalogHandler.FeaturedProducts)
		v1.GET("/products/:id", catalogHandler.GetProduct)
		v1.GET("/products/:id/reviews", catalogHandler.ListReviews)
		v1.GET("/banners", catalogHandler.ListBanners)
		v1.POST("/coupons/validate", couponHandler.Validate)

		authed := v1.Group("")
		authed.Use(middleware.AuthRequired())
		{
			authed.POST("/products/:id/reviews", catalogHandler.CreateReview)

			authed.GET("/cart", cartHandler.List)
			authed.POST("/cart", cartHandler.Add)
			authed.PUT("/cart/:id", cartHandler.Update)
			authed.DELETE("/cart/:id", cartHandler.Remove)
			authed.DELETE("/cart", cartHandler.Clear)

			authed.GET("/wishlist", cartHandler.ListWishlist)
			authed.POST("/wishlist", cartHandler.AddToWishlist)
			authed.DELETE("/wishlist/:productId", cartHandler.RemoveFromWishlist)

			authed.GET("/addresses", accountHandler.ListAddresses)
			authed.POST("/addresses", accountHandler.CreateAddress)
			authed.PUT("/addresses/:id", accountHandler.UpdateAddress)
			authed.DELETE("/addresses/:id", accountHandler.DeleteAddress)

			authed.GET("/payment-methods", accountHandler.ListPaymentMethods)
			authed.POST("/payment-methods", accountHandler.CreatePaymentMethod)
			authed.DELETE("/payment-methods/:id", accountHandler.DeletePaymentMethod)

			authed.POST("/orders", orderHandler.Checkout)
			authed.GET("/orders", orderHandler.List)
			authed.GET("/orders/:id", orderHandler.Get)
			authed.GET("/orders/:id/items", orderHandler.ListItems)
			authed.POST("/orders/:id/items", orderHandler.AppendItem)
			authed.PUT("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)
			authed.POST("/orders/:id/otp/verify", middleware.OtpRateLimit(), orderHandler.VerifyOtp)

			// Back office order controls live on the order resource but
			// require the admin role.
			authed.PUT("/orders/:id/status", middleware.AdminRequired(), orderHandler.UpdateStatus)
			authed.POST("/orders/:id/otp/resend", middleware.AdminRequired(), orderHandler.ResendOtp)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.POST("/banners", adminHandler.CreateBanner)
			admin.PUT("/banners/:id", adminHandler.UpdateBanner)

			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
		}
	}

	return r
}
