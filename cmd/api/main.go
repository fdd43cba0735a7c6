package main

import (
	"log"
	"os"

	_ "bookerp/api/swagger" // swagger docs
	"bookerp/internal/database"
	"bookerp/internal/handler"
	"bookerp/internal/middleware"
	"bookerp/internal/repository"
	"bookerp/internal/service"
	"bookerp/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Book ERP API
// @version         1.0
// @description     Order-to-cash API for a book publishing business: catalog, parties, stock, sales orders, challans, invoices, payments, and returns.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dsn := "postgres://" + envOr("DB_USER", "postgres") + ":" + envOr("DB_PASSWORD", "postgres") +
		"@" + envOr("DB_HOST", "localhost") + ":" + envOr("DB_PORT", "5432") +
		"/" + envOr("DB_NAME", "bookerp") + "?sslmode=" + envOr("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(db); err != nil {
		log.Fatalf("Database seeding failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	partyRepo := repository.NewPartyRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	stockRepo := repository.NewStockRepository(db)
	orderRepo := repository.NewSalesOrderRepository(db)
	challanRepo := repository.NewChallanRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	numbering := service.NewNumbering()
	pricingService := service.NewPricingService(partyRepo)
	userService := service.NewUserService(userRepo)
	itemService := service.NewItemService(itemRepo, auditRepo, txManager)
	partyService := service.NewPartyService(partyRepo, itemRepo, auditRepo, txManager)
	stockService := service.NewStockService(stockRepo, auditRepo, txManager, wsHub)
	orderService := service.NewOrderService(
		orderRepo, challanRepo, itemRepo, partyRepo, warehouseRepo,
		auditRepo, txManager, pricingService, stockService, numbering, wsHub,
	)
	invoiceService := service.NewInvoiceService(
		invoiceRepo, challanRepo, orderRepo, partyRepo, itemRepo,
		auditRepo, txManager, pricingService, numbering, wsHub,
	)
	returnService := service.NewReturnService(
		returnRepo, itemRepo, partyRepo, warehouseRepo,
		auditRepo, txManager, stockService, numbering, wsHub,
	)
	notifyService := service.NewNotifyService(
		invoiceService,
		service.NewInvoicePDFRenderer(),
		service.NewSMTPEmailSender(),
		service.NewCloudWhatsAppSender(),
	)
	auditService := service.NewAuditService(auditRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(userService)
	itemHandler := handler.NewItemHandler(itemService)
	partyHandler := handler.NewPartyHandler(partyService, invoiceService)
	stockHandler := handler.NewStockHandler(stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, notifyService)
	returnHandler := handler.NewReturnHandler(returnService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	itemHandler.RegisterRoutes(router.Group(""))
	partyHandler.RegisterRoutes(router.Group(""))
	stockHandler.RegisterRoutes(router.Group(""))
	orderHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	returnHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
