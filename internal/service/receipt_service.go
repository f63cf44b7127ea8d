package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"kvitto/internal/config"
	"kvitto/internal/domain"
	"kvitto/internal/port"
)

// CreateReceiptInput is the DTO for receipt upload requests.
type CreateReceiptInput struct {
	OwnerID       uuid.UUID
	FileBytes     []byte
	FileName      string
	ReceiptDate   time.Time
	DeclaredPrice float64
	Meta          RequestMeta
}

// ReceiptService orchestrates the receipt lifecycle: upload, OCR, status
// transitions and deletion. The primary state mutation always commits before
// its audit append and notification are attempted; those side effects are
// best-effort and never fail the operation.
type ReceiptService interface {
	Create(ctx context.Context, input CreateReceiptInput) (*domain.Receipt, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Receipt, error)
	ListAll(ctx context.Context) ([]domain.Receipt, error)
	UpdateStatus(ctx context.Context, receiptID uuid.UUID, newStatus domain.ReceiptStatus, adminID uuid.UUID, meta RequestMeta) error
	Delete(ctx context.Context, receiptID, adminID uuid.UUID, meta RequestMeta) error
	DownloadURL(ctx context.Context, receiptID uuid.UUID) (string, error)
}

type receiptService struct {
	receiptRepo port.ReceiptRepository
	commentRepo port.CommentRepository
	userRepo    port.UserRepository
	storage     port.ObjectStorage
	analyzer    port.ReceiptAnalyzer
	audit       AuditService
	email       port.EmailSender
	cfg         *config.S3Config
	now         func() time.Time
}

// NewReceiptService creates a new ReceiptService implementation.
func NewReceiptService(
	receiptRepo port.ReceiptRepository,
	commentRepo port.CommentRepository,
	userRepo port.UserRepository,
	storage port.ObjectStorage,
	analyzer port.ReceiptAnalyzer,
	audit AuditService,
	email port.EmailSender,
	cfg *config.S3Config,
) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		storage:     storage,
		analyzer:    analyzer,
		audit:       audit,
		email:       email,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *receiptService) Create(ctx context.Context, input CreateReceiptInput) (*domain.Receipt, error) {
	if input.DeclaredPrice <= 0 || input.DeclaredPrice > domain.MaxDeclaredPrice {
		return nil, domain.ErrInvalidPrice
	}
	if len(input.FileBytes) == 0 {
		return nil, domain.ErrEmptyFile
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if int64(len(input.FileBytes)) > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}
	contentType := domain.AllowedFileTypes[fileType]

	// The blob is written before any database row so a failed OCR call or
	// insert never loses the uploaded bytes.
	receiptID := uuid.New()
	s3Key := fmt.Sprintf("receipts/%s/%s.%s", input.OwnerID, receiptID, ext)

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        bytes.NewReader(input.FileBytes),
		ContentType: contentType,
		Size:        int64(len(input.FileBytes)),
	})
	if err != nil {
		log.Printf("receiptService.Create: blob upload failed for %s: %v", input.FileName, err)
		return nil, domain.ErrUploadFailed
	}

	rec := &domain.Receipt{
		ID:            receiptID,
		OwnerID:       input.OwnerID,
		UploadedAt:    s.now().UTC(),
		FileName:      input.FileName,
		S3Bucket:      s.cfg.Bucket,
		S3Key:         s3Key,
		ReceiptDate:   input.ReceiptDate,
		DeclaredPrice: input.DeclaredPrice,
		Status:        domain.StatusOpen,
	}

	// OCR failure degrades to a receipt without extracted fields; it never
	// aborts creation.
	ocr, err := s.analyzer.Analyze(ctx, input.FileBytes, contentType)
	if err != nil {
		log.Printf("receiptService.Create: OCR failed for %s, continuing without extracted fields: %v", receiptID, err)
	} else {
		rec.OcrGrossAmount = ocr.GrossAmount
		rec.OcrNetAmount = ocr.NetAmount
		rec.OcrVatAmount = ocr.VatAmount
		rec.OcrReceiptDate = ocr.ReceiptDate
		rec.OcrConfidence = ocr.Confidence
		rec.OcrMerchant = ocr.MerchantName
	}

	if err := s.receiptRepo.Create(ctx, rec); err != nil {
		// The already-written blob is orphaned garbage, not rolled back.
		return nil, fmt.Errorf("creating receipt: %w", err)
	}

	details := marshalDetails(map[string]interface{}{
		"file_name":      rec.FileName,
		"amount":         rec.DeclaredPrice,
		"ocr_confidence": rec.OcrConfidence,
	})
	desc := fmt.Sprintf("Receipt uploaded: %s (%.2f)", rec.FileName, rec.DeclaredPrice)
	ownerID := rec.OwnerID
	s.recordAudit(ctx, RecordAuditInput{
		Action:       domain.AuditReceiptCreated,
		EntityType:   domain.EntityReceipt,
		EntityID:     rec.ID.String(),
		ActorID:      rec.OwnerID,
		TargetUserID: &ownerID,
		DetailsJSON:  details,
		Description:  &desc,
		Meta:         input.Meta,
	})
	s.notifyNewReceipt(ctx, rec)

	return rec, nil
}

func (s *receiptService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, id)
}

func (s *receiptService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Receipt, error) {
	return s.receiptRepo.ListByOwner(ctx, ownerID)
}

func (s *receiptService) ListAll(ctx context.Context) ([]domain.Receipt, error) {
	return s.receiptRepo.ListAll(ctx)
}

func (s *receiptService) UpdateStatus(ctx context.Context, receiptID uuid.UUID, newStatus domain.ReceiptStatus, adminID uuid.UUID, meta RequestMeta) error {
	if !domain.ValidReceiptStatuses[newStatus] {
		return domain.ErrInvalidStatus
	}

	rec, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return err
	}
	oldStatus := rec.Status

	if err := s.receiptRepo.UpdateStatus(ctx, receiptID, newStatus, s.now().UTC()); err != nil {
		return err
	}

	log.Printf("receiptService.UpdateStatus: receipt %s %s -> %s by %s", receiptID, oldStatus, newStatus, adminID)

	// Everything below runs after the committed transition and is
	// best-effort: failures are logged, never propagated.
	details := marshalDetails(map[string]interface{}{
		"old_status": oldStatus,
		"new_status": newStatus,
	})
	desc := fmt.Sprintf("Status changed: %s -> %s", oldStatus, newStatus)
	ownerID := rec.OwnerID
	s.recordAudit(ctx, RecordAuditInput{
		Action:       domain.AuditStatusChanged,
		EntityType:   domain.EntityReceipt,
		EntityID:     receiptID.String(),
		ActorID:      adminID,
		ActorEmail:   s.emailSnapshot(ctx, adminID),
		TargetUserID: &ownerID,
		DetailsJSON:  details,
		Description:  &desc,
		Meta:         meta,
	})

	owner, err := s.userRepo.GetByID(ctx, rec.OwnerID)
	if err != nil {
		log.Printf("receiptService.UpdateStatus: owner %s not resolvable, skipping notification: %v", rec.OwnerID, err)
		return nil
	}
	if err := s.email.SendStatusChangeNotification(ctx, owner.Email, owner.Username,
		rec.FileName, string(oldStatus), string(newStatus)); err != nil {
		log.Printf("receiptService.UpdateStatus: status notification failed: %v", err)
	}

	return nil
}

func (s *receiptService) Delete(ctx context.Context, receiptID, adminID uuid.UUID, meta RequestMeta) error {
	rec, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return err
	}

	commentsDeleted, err := s.commentRepo.DeleteByReceipt(ctx, receiptID)
	if err != nil {
		return fmt.Errorf("deleting receipt comments: %w", err)
	}

	// A missing blob is logged, not fatal.
	if err := s.storage.Delete(ctx, rec.S3Bucket, rec.S3Key); err != nil {
		log.Printf("receiptService.Delete: blob delete failed for %s: %v", rec.S3Key, err)
	}

	if err := s.receiptRepo.Delete(ctx, receiptID); err != nil {
		return err
	}

	log.Printf("receiptService.Delete: receipt %s deleted by %s (%d comments)", receiptID, adminID, commentsDeleted)

	details := marshalDetails(map[string]interface{}{
		"file_name":        rec.FileName,
		"amount":           rec.DeclaredPrice,
		"comments_deleted": commentsDeleted,
	})
	desc := fmt.Sprintf("Receipt deleted: %s", rec.FileName)
	ownerID := rec.OwnerID
	s.recordAudit(ctx, RecordAuditInput{
		Action:       domain.AuditReceiptDeleted,
		EntityType:   domain.EntityReceipt,
		EntityID:     receiptID.String(),
		ActorID:      adminID,
		ActorEmail:   s.emailSnapshot(ctx, adminID),
		TargetUserID: &ownerID,
		DetailsJSON:  details,
		Description:  &desc,
		Meta:         meta,
	})

	return nil
}

func (s *receiptService) DownloadURL(ctx context.Context, receiptID uuid.UUID) (string, error) {
	rec, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, rec.S3Bucket, rec.S3Key, s.cfg.PresignExpiry)
}

// recordAudit appends a ledger entry. Failures are logged but never block
// business logic.
func (s *receiptService) recordAudit(ctx context.Context, input RecordAuditInput) {
	if err := s.audit.Record(ctx, input); err != nil {
		log.Printf("receiptService.recordAudit: failed to write %s entry for %s: %v", input.Action, input.EntityID, err)
	}
}

// emailSnapshot denormalizes the actor's email into the audit entry so the
// ledger stays readable after the account is deleted.
func (s *receiptService) emailSnapshot(ctx context.Context, userID uuid.UUID) *string {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil
	}
	return &u.Email
}

func (s *receiptService) notifyNewReceipt(ctx context.Context, rec *domain.Receipt) {
	admin, err := s.userRepo.FirstAdmin(ctx)
	if err != nil {
		log.Printf("receiptService.notifyNewReceipt: no admin resolvable: %v", err)
		return
	}
	owner, err := s.userRepo.GetByID(ctx, rec.OwnerID)
	if err != nil {
		log.Printf("receiptService.notifyNewReceipt: owner %s not resolvable: %v", rec.OwnerID, err)
		return
	}
	if err := s.email.SendNewReceiptNotification(ctx, admin.Email, owner.Username, rec.FileName, rec.DeclaredPrice); err != nil {
		log.Printf("receiptService.notifyNewReceipt: notification failed: %v", err)
	}
}

// marshalDetails encodes the audit detail blob. Inputs are small maps of
// scalars; an encode failure yields a nil blob rather than an error.
func marshalDetails(v map[string]interface{}) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
