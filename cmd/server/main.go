package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bibliocirc/internal/adapters/http/middleware"
	"bibliocirc/internal/adapters/http/routes"
	"bibliocirc/internal/adapters/persistence/models"
	"bibliocirc/internal/config"
	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo data in development
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed data: %v", err)
		}
	}

	// Token manager
	tokens := token.NewManager(cfg.Auth.Secret, time.Duration(cfg.Auth.AccessTokenMins)*time.Minute)

	// Notification emitter
	publisher := services.NewWebhookPublisher(cfg.Notify.WebhookURL)
	emitter := services.NewEmitter(publisher, cfg.Notify.QueueSize)
	defer emitter.Close()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BiblioCirc API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes and wire the service graph
	sweeps := routes.Setup(app, db, cfg, tokens, emitter)

	// Start the sweep scheduler
	if err := sweeps.Start(); err != nil {
		log.Fatalf("❌ Failed to start sweep scheduler: %v", err)
	}
	defer sweeps.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
