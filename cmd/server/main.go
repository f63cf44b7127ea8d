package main

import (
	"fmt"
	"log"

	"kvitto/internal/config"
	"kvitto/internal/email/noop"
	"kvitto/internal/email/ses"
	"kvitto/internal/handler"
	"kvitto/internal/ocr/azure"
	ocrnoop "kvitto/internal/ocr/noop"
	"kvitto/internal/port"
	"kvitto/internal/repository/postgres"
	"kvitto/internal/router"
	"kvitto/internal/service"
	s3storage "kvitto/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)
	commentRepo := postgres.NewCommentRepo(db)
	auditRepo := postgres.NewAuditLogRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	maintenanceRepo := postgres.NewMaintenanceRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// OCR provider
	var analyzer port.ReceiptAnalyzer
	switch cfg.OCR.Provider {
	case "azure":
		analyzer, err = azure.NewAnalyzer(&cfg.OCR)
		if err != nil {
			return fmt.Errorf("failed to initialize OCR analyzer: %w", err)
		}
	default:
		analyzer = ocrnoop.NewNoopAnalyzer()
	}

	// Email provider
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	auditSvc := service.NewAuditService(auditRepo)
	authSvc := service.NewAuthService(userRepo, &cfg.JWT)
	receiptSvc := service.NewReceiptService(receiptRepo, commentRepo, userRepo, s3Client, analyzer, auditSvc, emailSender, &cfg.S3)
	commentSvc := service.NewCommentService(commentRepo, receiptRepo, userRepo, auditSvc, emailSender)
	statsSvc := service.NewStatsService(statsRepo)
	settingsSvc := service.NewSettingsService(maintenanceRepo, auditRepo)
	userSvc := service.NewUserService(userRepo, auditSvc)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	receiptH := handler.NewReceiptHandler(receiptSvc, auditSvc)
	commentH := handler.NewCommentHandler(commentSvc)
	auditH := handler.NewAuditHandler(auditSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	userH := handler.NewUserHandler(userSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, authH, receiptH, commentH, auditH, statsH, userH, settingsH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
