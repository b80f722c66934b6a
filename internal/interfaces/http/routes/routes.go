// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/interfaces/http/handlers"
	"github.com/tduong196/bookstore/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes sets up all API routes under the given group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	SetupAuthRoutes(rg, db, redisClient, cfg, log)
	SetupUserRoutes(rg, db, redisClient, cfg, log)
	SetupBookRoutes(rg, db, redisClient, cfg, log)
	SetupCartRoutes(rg, db, redisClient, cfg, log)
	SetupOrderRoutes(rg, db, redisClient, cfg, log)
	SetupAdminRoutes(rg, db, redisClient, cfg, log)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg, log)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}
}

// SetupUserRoutes sets up profile routes for the logged-in user
func SetupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	profileHandler := handlers.NewUserProfileHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/me", profileHandler.GetProfile)
		users.PUT("/me", profileHandler.UpdateProfile)
		users.PUT("/me/password", profileHandler.ChangePassword)
	}
}

// SetupBookRoutes sets up catalog browsing routes
func SetupBookRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	bookHandler := handlers.NewBookHandler(db, cfg, log)
	reviewHandler := handlers.NewReviewHandler(db, cfg, log)
	commentHandler := handlers.NewCommentHandler(db, cfg)

	books := rg.Group("/books")
	books.Use(middleware.OptionalAuthMiddleware(cfg)) // Admins can see inactive books
	{
		books.GET("", bookHandler.ListBooks)
		books.GET("/:id", bookHandler.GetBook)
		books.GET("/:id/reviews", reviewHandler.ListBookReviews)
		books.GET("/:id/comments", commentHandler.ListBookComments)

		authed := books.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.POST("/:id/comments", commentHandler.CreateComment)
		}
	}

	comments := rg.Group("/comments")
	comments.Use(middleware.AuthMiddleware(cfg))
	{
		comments.DELETE("/:id", commentHandler.DeleteComment)
	}
}

// SetupCartRoutes sets up cart routes for guests and authenticated users
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/count", cartHandler.GetCartCount)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:bookId", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:bookId", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupOrderRoutes sets up checkout, order tracking, review and chat routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg, log)
	orderHandler := handlers.NewOrderHandler(db, cfg, log)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg, log)
	reviewHandler := handlers.NewReviewHandler(db, cfg, log)
	chatHandler := handlers.NewChatHandler(db, cfg, log)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("", checkoutHandler.PlaceOrder)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListMyOrders)
		orders.GET("/:id", orderHandler.GetMyOrder)
		orders.GET("/:id/invoice", invoiceHandler.DownloadInvoice)
	}

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(cfg))
	{
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("", reviewHandler.ListMyReviews)
	}

	chat := rg.Group("/chat")
	chat.Use(middleware.AuthMiddleware(cfg))
	{
		chat.POST("", chatHandler.Chat)
	}
}

// SetupAdminRoutes sets up admin management routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	bookHandler := handlers.NewBookHandler(db, cfg, log)
	orderHandler := handlers.NewOrderHandler(db, cfg, log)
	reviewHandler := handlers.NewReviewHandler(db, cfg, log)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		books := admin.Group("/books")
		{
			books.POST("", bookHandler.CreateBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", orderHandler.ListAllOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}

		reviews := admin.Group("/reviews")
		{
			reviews.GET("", reviewHandler.ListAllReviews)
			reviews.PUT("/:id/approval", reviewHandler.SetApproval)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
		}

		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.ListUsers)
			users.PUT("/:id/active", userAdminHandler.SetActive)
			users.PUT("/:id/admin", userAdminHandler.SetAdmin)
		}

		uploadHandler, err := handlers.NewUploadHandler(db, cfg, log)
		if err != nil {
			log.WithField("error", err.Error()).Warn("⚠️ Upload routes disabled, storage provider unavailable")
		} else {
			admin.POST("/uploads", uploadHandler.UploadCover)
		}
	}
}
