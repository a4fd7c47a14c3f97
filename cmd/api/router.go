package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.FrontendURL),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupBorrowRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/verify-otp", c.UserHandler.VerifyOTP)
		auth.POST("/login", c.UserHandler.Login)
		auth.GET("/logout", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.Me)
		auth.POST("/password/forgot", c.UserHandler.ForgotPassword)
		auth.PUT("/password/reset/:token", c.UserHandler.ResetPassword)
		auth.PUT("/password/update", middleware.AuthMiddleware(c.JWTManager), c.UserHandler.ChangePassword)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	book := v1.Group("/book")
	book.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		book.GET("/all", c.BookHandler.GetAll)
		book.POST("/admin/add", middleware.AdminMiddleware(), c.BookHandler.Add)
		book.DELETE("/admin/delete/:id", middleware.AdminMiddleware(), c.BookHandler.Delete)
	}
}

// ========================================
// USER ROUTES (admin management)
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	user := v1.Group("/user")
	user.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		user.GET("/all", c.UserHandler.ListUsers)
		user.POST("/add/new-admin", c.UserHandler.AddNewAdmin)
	}
}

// ========================================
// BORROW ROUTES
// ========================================
func setupBorrowRoutes(v1 *gin.RouterGroup, c *container.Container) {
	borrow := v1.Group("/borrow")
	borrow.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		borrow.GET("/my-borrowed-books", c.BorrowHandler.MyBorrowedBooks)

		// Lending is recorded at the desk by an admin.
		borrow.POST("", middleware.AdminMiddleware(), c.BorrowHandler.Borrow)
		borrow.PUT("/return-borrowed-book/:bookId", middleware.AdminMiddleware(), c.BorrowHandler.Return)
		borrow.GET("/borrowed-books-by-users", middleware.AdminMiddleware(), c.BorrowHandler.BorrowedBooksByUsers)
	}
}

// healthCheckHandler reports process and database health.
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"status":  "unhealthy",
				"error":   err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"success": true,
			"status":  "healthy",
			"time":    time.Now().UTC(),
		})
	}
}
