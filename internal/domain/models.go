package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can upload receipts or administer them.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Receipt pairs an uploaded document with declared and OCR-extracted
// financial fields and a review status.
type Receipt struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OwnerID    uuid.UUID `db:"owner_id" json:"owner_id"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
	FileName   string    `db:"file_name" json:"file_name"`
	S3Bucket   string    `db:"s3_bucket" json:"-"`
	S3Key      string    `db:"s3_key" json:"-"`

	// User-declared fields from the upload form.
	ReceiptDate   time.Time `db:"receipt_date" json:"receipt_date"`
	DeclaredPrice float64   `db:"declared_price" json:"declared_price"`

	// OCR-derived fields, nil unless the analyzer succeeded.
	OcrGrossAmount *float64   `db:"ocr_gross_amount" json:"ocr_gross_amount"`
	OcrNetAmount   *float64   `db:"ocr_net_amount" json:"ocr_net_amount"`
	OcrVatAmount   *float64   `db:"ocr_vat_amount" json:"ocr_vat_amount"`
	OcrReceiptDate *time.Time `db:"ocr_receipt_date" json:"ocr_receipt_date"`
	OcrConfidence  *float64   `db:"ocr_confidence" json:"ocr_confidence"`
	OcrMerchant    *string    `db:"ocr_merchant" json:"ocr_merchant"`

	Status          ReceiptStatus `db:"status" json:"status"`
	StatusChangedAt *time.Time    `db:"status_changed_at" json:"status_changed_at"`
}

// OCRResult is the structured output of the receipt analyzer. All fields are
// optional; a failed analysis surfaces as an error from the analyzer, and the
// lifecycle treats that as "no OCR data", never as a creation failure.
type OCRResult struct {
	GrossAmount     *float64
	NetAmount       *float64
	VatAmount       *float64
	ReceiptDate     *time.Time
	Confidence      *float64
	MerchantName    *string
	MerchantAddress *string
}

// AuditLogEntry is an immutable, append-only record of one administrative or
// state-changing action. TimestampUTC is always server-assigned.
type AuditLogEntry struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	TimestampUTC time.Time  `db:"timestamp_utc" json:"timestamp_utc"`
	Action       string     `db:"action" json:"action"`
	EntityType   string     `db:"entity_type" json:"entity_type"`
	EntityID     string     `db:"entity_id" json:"entity_id"`
	ActorUserID  uuid.UUID  `db:"actor_user_id" json:"actor_user_id"`
	ActorEmail   *string    `db:"actor_email" json:"actor_email"`
	TargetUserID *uuid.UUID `db:"target_user_id" json:"target_user_id"`
	IPAddress    *string    `db:"ip_address" json:"ip_address"`
	UserAgent    *string    `db:"user_agent" json:"user_agent"`
	DetailsJSON  *string    `db:"details_json" json:"details_json"`
	Description  *string    `db:"description" json:"description"`
}

// ReceiptComment belongs to exactly one receipt and may reply to another
// comment on the same receipt. IsAdminComment is a snapshot of the author's
// role at posting time and is never re-evaluated.
type ReceiptComment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ReceiptID       uuid.UUID  `db:"receipt_id" json:"receipt_id"`
	AuthorID        uuid.UUID  `db:"author_id" json:"author_id"`
	AuthorName      string     `db:"author_name" json:"author_name"`
	CommentText     string     `db:"comment_text" json:"comment_text"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ParentCommentID *uuid.UUID `db:"parent_comment_id" json:"parent_comment_id"`
	IsAdminComment  bool       `db:"is_admin_comment" json:"is_admin_comment"`
	IsDeleted       bool       `db:"is_deleted" json:"is_deleted"`
	DeletedAt       *time.Time `db:"deleted_at" json:"deleted_at"`
	DeletedByUserID *uuid.UUID `db:"deleted_by_user_id" json:"deleted_by_user_id"`
}

// CommentNode is a comment with its non-deleted replies, as returned by the
// thread read projection.
type CommentNode struct {
	ReceiptComment
	Replies []CommentNode `json:"replies"`
}

// DashboardStats is the aggregate view over the full receipt set plus the
// current calendar month.
type DashboardStats struct {
	TotalReceipts        int     `db:"total_receipts" json:"total_receipts"`
	TotalAmount          float64 `db:"total_amount" json:"total_amount"`
	AverageOcrConfidence float64 `db:"average_ocr_confidence" json:"average_ocr_confidence"`
	ReceiptsThisMonth    int     `db:"receipts_this_month" json:"receipts_this_month"`
	OpenReceipts         int     `db:"open_receipts" json:"open_receipts"`
	InReviewReceipts     int     `db:"in_review_receipts" json:"in_review_receipts"`
	ClosedReceipts       int     `db:"closed_receipts" json:"closed_receipts"`
}

// MonthlyStats groups receipts of one calendar month.
type MonthlyStats struct {
	Year              int     `db:"year" json:"year"`
	Month             int     `db:"month" json:"month"`
	ReceiptCount      int     `db:"receipt_count" json:"receipt_count"`
	TotalAmount       float64 `db:"total_amount" json:"total_amount"`
	AverageConfidence float64 `db:"average_confidence" json:"average_confidence"`
}

// UserStats groups receipts by owner.
type UserStats struct {
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	Username          string    `db:"username" json:"username"`
	Email             string    `db:"email" json:"email"`
	ReceiptCount      int       `db:"receipt_count" json:"receipt_count"`
	TotalAmount       float64   `db:"total_amount" json:"total_amount"`
	AverageConfidence float64   `db:"average_confidence" json:"average_confidence"`
}
