package main

import (
	"context"
	"log"

	"github.com/rahu431/snapbill-service/internal/config"
	"github.com/rahu431/snapbill-service/internal/database"
	"github.com/rahu431/snapbill-service/internal/gemini"
	"github.com/rahu431/snapbill-service/internal/handler"
	"github.com/rahu431/snapbill-service/internal/repository"
	"github.com/rahu431/snapbill-service/internal/server"
	"github.com/rahu431/snapbill-service/internal/service"
	"github.com/rahu431/snapbill-service/internal/storage"

	_ "github.com/rahu431/snapbill-service/docs"
)

// @title SnapBill API
// @version 1.0
// @description Invoicing backend with an AI billing assistant.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Pick the storage backend: Postgres when configured, JSON blob otherwise
	var store repository.Store
	if cfg.PostgresURL != "" {
		log.Println("Connecting to Postgres...")
		pool, err := database.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		pgStore := repository.NewPostgresStore(pool)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = pgStore
	} else {
		log.Printf("Using blob storage in %s", cfg.DataDir)
		blobStore, err := repository.NewBlobRepository(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize blob storage: %v", err)
		}
		store = blobStore
	}
	defer store.Close()

	// Product image storage is optional; uploads fail cleanly without it
	var images storage.ImageStore
	if cfg.S3Bucket != "" {
		images, err = storage.NewS3ImageStore(&storage.Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
		})
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
	}

	geminiClient := gemini.NewClient(&gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		ModelID: cfg.GeminiModelID,
		Timeout: cfg.GeminiTimeout,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		Users:                store,
		GoogleClientID:       cfg.GoogleClientID,
		GoogleClientSecret:   cfg.GoogleClientSecret,
		GoogleRedirectURL:    cfg.GoogleRedirectURL,
		JWTSecret:            cfg.JWTSecret,
		JWTAccessExpiration:  cfg.JWTAccessExpiration,
		JWTRefreshExpiration: cfg.JWTRefreshExpiration,
		SuperAdminEmail:      cfg.SuperAdminEmail,
		SuperAdminPassword:   cfg.SuperAdminPassword,
	})
	if err := authService.EnsureSuperAdmin(ctx); err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	invoiceService := service.NewInvoiceService(store)
	catalogService := service.NewCatalogService(store, images)
	exportService := service.NewExportService(store)
	assistantService := service.NewAssistantService(geminiClient, store)

	log.Println("Configuring server...")
	appServer := server.NewServer(cfg, authService, server.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Admin:     handler.NewAdminHandler(authService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, exportService),
		Product:   handler.NewProductHandler(catalogService),
		Profile:   handler.NewProfileHandler(catalogService),
		Cart:      handler.NewCartHandler(),
		Assistant: handler.NewAssistantHandler(assistantService),
	})

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}
