package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"jabatata-pos/internal/config"
	"jabatata-pos/internal/handler"
	"jabatata-pos/internal/middleware"
	"jabatata-pos/internal/repository"
	"jabatata-pos/internal/service"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"
	"jabatata-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal("failed to load config", zap.Error(err))
	}

	// 2. Setup Database (local SQLite snapshot mirror)
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	if err := db.AutoMigrate(&repository.Snapshot{}); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog)
	go wsHub.Run()

	// 4. Load persisted state (missing or unparsable values fall back to
	// the built-in defaults).
	appStore := store.New(repository.NewSnapshotRepo(db), zlog)
	appStore.Load()

	// 5. Dependency Injection (Wiring Layers)
	saleService := service.NewSaleService(appStore, wsHub, zlog)
	dashService := service.NewDashboardService(appStore, wsHub, zlog)
	menuService := service.NewMenuService(appStore, wsHub, zlog)
	backupService := service.NewBackupService(appStore, wsHub, zlog)
	authService := service.NewAuthService(cfg.PasscodeHash, zlog)

	saleHandler := handler.NewSaleHandler(saleService)
	productHandler := handler.NewProductHandler(menuService)
	dashHandler := handler.NewDashboardHandler(dashService)
	backupHandler := handler.NewBackupHandler(backupService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "JABATATA POS v2.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "online"})
	})

	api := app.Group("/api/v1")

	// Auth (explicit unlock gesture, not per-keystroke)
	api.Post("/auth/unlock", authHandler.Unlock)

	// Sales
	api.Get("/sales", saleHandler.GetSales)
	api.Post("/sales", saleHandler.CreateSale)
	api.Put("/sales/:id", saleHandler.UpdateSale)

	// Catalog (reads are open; menu mutations need the admin session)
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", middleware.RequireAdmin(), productHandler.CreateProduct)
	api.Delete("/products/:id", middleware.RequireAdmin(), productHandler.DeleteProduct)

	// Dashboard & goal
	api.Get("/dashboard/stats", dashHandler.GetStats)
	api.Get("/dashboard/ranking", dashHandler.GetRanking)
	api.Get("/goal", dashHandler.GetGoal)
	api.Put("/goal", dashHandler.SetGoal)

	// Backup
	api.Get("/backup/export", backupHandler.Export)
	api.Post("/backup/import", backupHandler.Import)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}
