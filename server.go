package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/storestock_backend/config"
	"github.com/mmdatafocus/storestock_backend/handlers"
	"github.com/mmdatafocus/storestock_backend/middlewares"
	"github.com/mmdatafocus/storestock_backend/models"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func registerRoutes(r *gin.Engine) {
	r.POST("/login", handlers.LoginHandler)

	api := r.Group("/api", middlewares.RequireAuth())

	api.POST("/logout", handlers.LogoutHandler)
	api.POST("/users", handlers.CreateUserHandler)
	api.GET("/users", handlers.GetUsersHandler)

	api.POST("/categories", handlers.CreateCategoryHandler)
	api.GET("/categories", handlers.GetCategoriesHandler)
	api.GET("/categories/:id", handlers.GetCategoryHandler)
	api.PUT("/categories/:id", handlers.UpdateCategoryHandler)
	api.DELETE("/categories/:id", handlers.DeleteCategoryHandler)

	api.POST("/suppliers", handlers.CreateSupplierHandler)
	api.GET("/suppliers", handlers.GetSuppliersHandler)
	api.GET("/suppliers/:id", handlers.GetSupplierHandler)
	api.PUT("/suppliers/:id", handlers.UpdateSupplierHandler)
	api.DELETE("/suppliers/:id", handlers.DeleteSupplierHandler)

	api.POST("/products", handlers.CreateProductHandler)
	api.GET("/products", handlers.GetProductsHandler)
	api.GET("/products/:id", handlers.GetProductHandler)
	api.PUT("/products/:id", handlers.UpdateProductHandler)
	api.DELETE("/products/:id", handlers.DeleteProductHandler)

	api.POST("/purchases", handlers.CreatePurchaseHandler)
	api.GET("/purchases", handlers.GetPurchasesHandler)
	api.GET("/purchases/:id", handlers.GetPurchaseHandler)
	api.DELETE("/purchases/:id", handlers.DeletePurchaseHandler)
	api.POST("/purchases/:id/items", handlers.AddPurchaseItemHandler)
	api.DELETE("/purchases/:id/items/:itemId", handlers.DeletePurchaseItemHandler)
	api.POST("/purchases/:id/receive", handlers.ReceivePurchaseHandler)
	api.POST("/purchases/:id/cancel", handlers.CancelPurchaseHandler)

	api.POST("/sales", handlers.CreateSaleHandler)
	api.GET("/sales", handlers.GetSalesHandler)
	api.GET("/sales/:id", handlers.GetSaleHandler)
	api.DELETE("/sales/:id", handlers.DeleteSaleHandler)
	api.POST("/sales/:id/items", handlers.AddSaleItemHandler)
	api.DELETE("/sales/:id/items/:itemId", handlers.DeleteSaleItemHandler)
	api.PUT("/sales/:id/discount", handlers.UpdateSaleDiscountHandler)

	api.POST("/expenses", handlers.CreateExpenseHandler)
	api.GET("/expenses", handlers.GetExpensesHandler)
	api.GET("/expenses/:id", handlers.GetExpenseHandler)
	api.PUT("/expenses/:id", handlers.UpdateExpenseHandler)
	api.DELETE("/expenses/:id", handlers.DeleteExpenseHandler)

	api.GET("/reports/dashboard", handlers.DashboardHandler)
	api.GET("/reports/monthly", handlers.MonthlyReportHandler)
	api.GET("/reports/monthly/export", handlers.ExportMonthlyReportHandler)
	api.GET("/reports/yearly", handlers.YearlyReportHandler)
	api.GET("/reports/low-stock", handlers.LowStockHandler)
	api.GET("/reports/top-products", handlers.TopSellingProductsHandler)
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server before dependencies are ready; app endpoints
	// return 503 until DB/Redis connections are established.
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(gin.Recovery())

	registerRoutes(r)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	// AutoMigrate runs DDL; allow running it as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("shutdown: " + err.Error())
	}
}
