// Command ingestd watches a drop directory and uploads every receipt file it
// finds through the regular pipeline, on behalf of a configured owner account.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"kvitto/internal/config"
	"kvitto/internal/email/noop"
	"kvitto/internal/ingest"
	"kvitto/internal/ocr/azure"
	ocrnoop "kvitto/internal/ocr/noop"
	"kvitto/internal/port"
	"kvitto/internal/repository/postgres"
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
	if cfg.Ingest.WatchDir == "" {
		return fmt.Errorf("KVITTO_INGEST_WATCH_DIR is required")
	}
	if cfg.Ingest.OwnerEmail == "" {
		return fmt.Errorf("KVITTO_INGEST_OWNER_EMAIL is required")
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepo(db)
	receiptRepo := postgres.NewReceiptRepo(db)
	commentRepo := postgres.NewCommentRepo(db)
	auditRepo := postgres.NewAuditLogRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	var analyzer port.ReceiptAnalyzer
	if cfg.OCR.Provider == "azure" {
		analyzer, err = azure.NewAnalyzer(&cfg.OCR)
		if err != nil {
			return fmt.Errorf("failed to initialize OCR analyzer: %w", err)
		}
	} else {
		analyzer = ocrnoop.NewNoopAnalyzer()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	owner, err := userRepo.GetByEmail(ctx, cfg.Ingest.OwnerEmail)
	if err != nil {
		return fmt.Errorf("resolving ingest owner %s: %w", cfg.Ingest.OwnerEmail, err)
	}

	auditSvc := service.NewAuditService(auditRepo)
	// Ingested uploads never send notification emails.
	receiptSvc := service.NewReceiptService(receiptRepo, commentRepo, userRepo,
		s3Client, analyzer, auditSvc, noop.NewNoopSender(), &cfg.S3)

	paths, err := ingest.Watch(ctx, ingest.WatchConfig{
		Root:        cfg.Ingest.WatchDir,
		InitialScan: true,
		Debounce:    cfg.Ingest.Debounce,
	})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	log.Printf("ingestd watching %s for %s", cfg.Ingest.WatchDir, owner.Email)
	ingest.NewIngestor(receiptSvc, owner.ID).Run(ctx, paths)

	return nil
}
