package main

import (
	"os"
	"time"

	"stationery-admin/internal/database"
	"stationery-admin/internal/handlers"
	"stationery-admin/internal/logger"
	"stationery-admin/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	err := godotenv.Load()

	if logErr := logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV")); logErr != nil {
		panic(logErr)
	}
	if err != nil {
		logger.L().Warn("No .env file found, using environment variables")
	}

	database.Connect()

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	allowOrigin := os.Getenv("FRONTEND_ORIGIN")
	if allowOrigin == "" {
		allowOrigin = "http://localhost:5173" // React dev server
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", handlers.Login)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		logger.L().Warn("Registration route is OPEN. Disable this in production!")
	} else {
		logger.L().Info("Registration route is disabled")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF & ADMIN
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/student/:id", handlers.GetStudentProducts)

		api.GET("/students", handlers.GetStudents)
		api.GET("/students/:id", handlers.GetStudent)
		api.POST("/students", handlers.AddStudent)
		api.PUT("/students/:id", handlers.UpdateStudent)

		api.POST("/transactions", handlers.CreateTransaction)
		api.GET("/transactions/student/:id", handlers.GetStudentTransactions)
		api.PUT("/transactions/:id", handlers.UpdateTransaction)
		api.PUT("/transactions/:id/components/taken", handlers.MarkComponentTaken)
		api.POST("/transactions/sync", handlers.SyncTransactions)
		api.GET("/transactions/:id/receipt", handlers.GetReceipt)

		api.GET("/settings", handlers.GetSettings)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)

			admin.POST("/products", handlers.AddProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)

			admin.GET("/vendors", handlers.GetVendors)
			admin.POST("/vendors", handlers.AddVendor)
			admin.DELETE("/vendors/:id", handlers.DeleteVendor)

			admin.GET("/stock-entries", handlers.GetStockEntries)
			admin.POST("/stock-entries", handlers.AddStockEntry)
			admin.GET("/stock-transfers", handlers.GetStockTransfers)
			admin.POST("/stock-transfers", handlers.AddStockTransfer)

			admin.PUT("/settings", handlers.UpdateSettings)

			admin.GET("/reports", handlers.GetIssueReport)
			admin.GET("/reports/low-stock", handlers.GetLowStockReport)
			admin.GET("/reports/valuation", handlers.GetStockValuation)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.L().Info("Server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.L().Fatal("Server failed to start", zap.Error(err))
	}
}
