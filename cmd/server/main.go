package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	api "franchise-backend/internal/api/http"
	"franchise-backend/internal/config"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/payment"
	"franchise-backend/internal/render"
	"franchise-backend/internal/repository/postgres"
	"franchise-backend/internal/security"
	"franchise-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Franchise Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Payment Provider
	// The mock provider keeps intents in memory and signs webhooks with the
	// configured secret; swap in the real adapter behind the same interface.
	provider := payment.NewMockProvider(cfg.Provider.WebhookSecret)

	// Initialize Collaborators
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	renderer := render.NewTemplateRenderer(cfg.Documents.TemplateDir)

	// Initialize Services
	clock := service.Clock(service.SystemClock)
	ledgerSvc := service.NewLedgerService(store, &store.Repositories)
	txSvc := service.NewTransactionService(store, &store.Repositories, clock)
	scheduleSvc := service.NewScheduleService(store, &store.Repositories, cfg.Billing, clock)
	paymentSvc := service.NewPaymentService(store, &store.Repositories, provider, emailSvc, clock)
	onboardingSvc := service.NewOnboardingService(store, &store.Repositories, cfg.Billing, cfg.Provider.PaymentPage, emailSvc, clock)
	invoiceSvc := service.NewInvoiceService(store, &store.Repositories, cfg.Billing, renderer, cfg.Documents.OutputDir, emailSvc, clock)
	dashboardSvc := service.NewDashboardService(&store.Repositories)

	// Set up HTTP server
	server := api.NewServer(
		tokenManager,
		provider,
		onboardingSvc,
		paymentSvc,
		scheduleSvc,
		txSvc,
		invoiceSvc,
		dashboardSvc,
		ledgerSvc,
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), server); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
