package routes

import (
	"time"

	"bibliocirc/internal/adapters/http/handlers"
	"bibliocirc/internal/adapters/http/middleware"
	"bibliocirc/internal/adapters/persistence/repositories"
	"bibliocirc/internal/config"
	"bibliocirc/internal/core/services"
	"bibliocirc/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup wires the repository/service graph and configures all routes.
// It returns the sweep scheduler so main can start and stop it with the
// server lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, tokens *token.Manager, emitter services.EventEmitter) *services.SweepService {
	// Initialize repositories
	inventoryRepo := repositories.NewInventoryRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	sanctionRepo := repositories.NewSanctionRepository(db)
	patronRepo := repositories.NewPatronRepository(db)

	// Initialize services
	inventoryService := services.NewInventoryService(inventoryRepo)
	sanctionService := services.NewSanctionService(sanctionRepo, patronRepo, emitter, cfg.Circulation.SanctionMultiplier)
	loanService := services.NewLoanService(
		loanRepo,
		patronRepo,
		inventoryService,
		sanctionService,
		emitter,
		services.LoanPolicy{
			HomeLoanDays:    cfg.Circulation.HomeLoanDays,
			RoomLoanHours:   cfg.Circulation.RoomLoanHours,
			BranchCloseHour: cfg.Circulation.BranchCloseHour,
		},
		cfg.Circulation.SweepBatchSize,
	)
	reservationService := services.NewReservationService(reservationRepo, patronRepo, inventoryService, emitter, cfg.Circulation.SweepBatchSize)
	patronService := services.NewPatronService(patronRepo, tokens)
	statsService := services.NewStatsService(loanRepo, sanctionRepo, inventoryRepo)

	sweepService := services.NewSweepService(
		loanService,
		reservationService,
		time.Duration(cfg.Circulation.OverdueSweepMins)*time.Minute,
		time.Duration(cfg.Circulation.ReservationSweepMins)*time.Minute,
	)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	patronHandler := handlers.NewPatronHandler(patronService)
	catalogHandler := handlers.NewCatalogHandler(inventoryService)
	loanHandler := handlers.NewLoanHandler(loanService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	adminHandler := handlers.NewAdminHandler(statsService, sanctionService, sweepService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Token issuance (public, rate limited)
	apiV1.Post("/auth/token", middleware.TokenRateLimiter(), patronHandler.IssueToken)

	auth := middleware.AuthMiddleware(tokens)
	staff := middleware.StaffOnly()

	// Catalog routes (public reads, cached)
	catalogRoutes := apiV1.Group("/documents")
	catalogRoutes.Get("/", middleware.CacheControl(30*time.Second), catalogHandler.ListDocuments)
	catalogRoutes.Get("/:id", middleware.CacheControl(30*time.Second), catalogHandler.GetDocument)
	catalogRoutes.Get("/:id/items", catalogHandler.ListItems)

	// Catalog management (staff)
	catalogRoutes.Post("/", auth, staff, catalogHandler.CreateDocument)
	catalogRoutes.Delete("/:id", auth, staff, catalogHandler.DeleteDocument)
	catalogRoutes.Post("/:id/items", auth, staff, catalogHandler.AddItem)
	apiV1.Put("/items/:id/status", auth, staff, catalogHandler.SetItemStatus)

	// Profile
	apiV1.Get("/me", auth, patronHandler.Me)

	// Loan routes (circulation state, never cached)
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(auth, middleware.NoCacheHeaders())
	loanRoutes.Post("/", loanHandler.Create)
	loanRoutes.Get("/my", loanHandler.MyLoans)
	loanRoutes.Get("/:id", loanHandler.Get)
	loanRoutes.Put("/:id/return", loanHandler.Return)
	loanRoutes.Put("/:id/extend", staff, loanHandler.Extend)

	// Reservation routes
	reservationRoutes := apiV1.Group("/reservations")
	reservationRoutes.Use(auth, middleware.NoCacheHeaders())
	reservationRoutes.Post("/", reservationHandler.Create)
	reservationRoutes.Get("/my", reservationHandler.MyReservations)
	reservationRoutes.Get("/:id", reservationHandler.Get)
	reservationRoutes.Put("/:id/cancel", reservationHandler.Cancel)
	reservationRoutes.Put("/:id/complete", staff, reservationHandler.Complete)

	// Patron directory (staff)
	patronRoutes := apiV1.Group("/patrons")
	patronRoutes.Use(auth, staff)
	patronRoutes.Post("/", patronHandler.Register)
	patronRoutes.Get("/", patronHandler.List)
	patronRoutes.Get("/:id", patronHandler.Get)
	patronRoutes.Get("/:id/loans", loanHandler.PatronLoans)
	patronRoutes.Get("/:id/sanctions", adminHandler.PatronSanctions)

	// Admin routes (staff)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth, staff)
	adminRoutes.Get("/stats", adminHandler.Stats)
	adminRoutes.Post("/sweeps/overdue", adminHandler.RunOverdueSweep)
	adminRoutes.Post("/sweeps/reservations", adminHandler.RunReservationSweep)

	return sweepService
}
