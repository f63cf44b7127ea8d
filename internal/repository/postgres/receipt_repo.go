package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

type receiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo creates a new PostgreSQL-backed ReceiptRepository.
func NewReceiptRepo(db *sqlx.DB) port.ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, rec *domain.Receipt) error {
	query := `INSERT INTO receipts (
		id, owner_id, uploaded_at, file_name, s3_bucket, s3_key,
		receipt_date, declared_price,
		ocr_gross_amount, ocr_net_amount, ocr_vat_amount,
		ocr_receipt_date, ocr_confidence, ocr_merchant,
		status, status_changed_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8,
		$9, $10, $11,
		$12, $13, $14,
		$15, $16
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.UploadedAt, rec.FileName, rec.S3Bucket, rec.S3Key,
		rec.ReceiptDate, rec.DeclaredPrice,
		rec.OcrGrossAmount, rec.OcrNetAmount, rec.OcrVatAmount,
		rec.OcrReceiptDate, rec.OcrConfidence, rec.OcrMerchant,
		rec.Status, rec.StatusChangedAt)
	if err != nil {
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	var rec domain.Receipt
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM receipts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("receiptRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *receiptRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Receipt, error) {
	var recs []domain.Receipt
	err := r.db.SelectContext(ctx, &recs,
		"SELECT * FROM receipts WHERE owner_id = $1 ORDER BY uploaded_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ListByOwner: %w", err)
	}
	return recs, nil
}

func (r *receiptRepo) ListAll(ctx context.Context) ([]domain.Receipt, error) {
	var recs []domain.Receipt
	err := r.db.SelectContext(ctx, &recs,
		"SELECT * FROM receipts ORDER BY uploaded_at DESC")
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ListAll: %w", err)
	}
	return recs, nil
}

func (r *receiptRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReceiptStatus, changedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE receipts SET status = $1, status_changed_at = $2 WHERE id = $3",
		status, changedAt, id)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateStatus: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateStatus rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}

func (r *receiptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM receipts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("receiptRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("receiptRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrReceiptNotFound
	}
	return nil
}
