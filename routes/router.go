package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/maplemart/storefront/config"
	"github.com/maplemart/storefront/controllers"
	"github.com/maplemart/storefront/middleware"
	"github.com/maplemart/storefront/services"
	"github.com/maplemart/storefront/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record catalog PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	resolver := services.DiscountResolver{Mode: services.ParseStackingMode(cfg.DiscountStacking)}
	loyalty := services.NewLoyaltyService(db, cfg.CheckInBasePoints, cfg.CheckInStreakBonus)

	authController := controllers.NewAuthController(db)
	catalogController := controllers.NewCatalogController(db)
	cartController := controllers.NewCartController(db)
	checkoutController := controllers.NewCheckoutController(db, resolver)
	loyaltyController := controllers.NewLoyaltyController(loyalty)
	adminController := controllers.NewAdminController(db, loyalty)
	dashboardController := controllers.NewDashboardController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public catalog
	api.GET("/products", catalogController.ListProducts)
	api.GET("/products/:slug", catalogController.GetProduct)
	api.GET("/notice", catalogController.Notice)

	// Anonymous carts, keyed by opaque token
	api.POST("/carts", cartController.CreateCart)
	api.GET("/carts/:token", cartController.GetCart)
	api.PUT("/carts/:token/items", cartController.SetItem)
	api.DELETE("/carts/:token/items", cartController.RemoveItem)
	api.DELETE("/carts/:token", cartController.ClearCart)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/promotions/:id/eligibility", checkoutController.EvaluatePromotion)
	protected.POST("/vouchers/evaluate", checkoutController.EvaluateVoucher)
	protected.POST("/checkout/quote", checkoutController.Quote)
	protected.POST("/checkout", checkoutController.Commit)
	protected.GET("/orders", checkoutController.ListMyOrders)
	protected.GET("/orders/:number", checkoutController.GetOrder)

	protected.POST("/loyalty/check-in", loyaltyController.CheckIn)
	protected.GET("/loyalty/summary", loyaltyController.Summary)
	protected.POST("/loyalty/rewards", loyaltyController.Redeem)
	protected.GET("/loyalty/history", loyaltyController.PromotionHistory)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())

	admin.POST("/products", adminController.CreateProduct)
	admin.PUT("/products/:id", adminController.UpdateProduct)
	admin.DELETE("/products/:id", adminController.DeleteProduct)

	admin.GET("/promotions", adminController.ListPromotions)
	admin.POST("/promotions", adminController.CreatePromotion)
	admin.PUT("/promotions/:id", adminController.UpdatePromotion)

	admin.GET("/vouchers", adminController.ListVouchers)
	admin.POST("/vouchers", adminController.CreateVoucher)

	admin.GET("/rewards/pending", adminController.ListPendingRewards)
	admin.POST("/rewards/:id/confirm", adminController.ConfirmReward)
	admin.GET("/customers/:id/summary", adminController.CustomerSummary)
	admin.GET("/customers/:id/history", adminController.CustomerPromotionHistory)

	admin.GET("/dashboard/overview", dashboardController.Overview)
	admin.GET("/dashboard/revenue", dashboardController.Revenue)
	admin.GET("/dashboard/top-products", dashboardController.TopProducts)
	admin.GET("/dashboard/traffic", dashboardController.Traffic)
	admin.GET("/dashboard/system", dashboardController.SystemStatus)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
