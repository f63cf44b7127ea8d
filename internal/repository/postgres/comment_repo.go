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

type commentRepo struct {
	db *sqlx.DB
}

// NewCommentRepo creates a new PostgreSQL-backed CommentRepository.
func NewCommentRepo(db *sqlx.DB) port.CommentRepository {
	return &commentRepo{db: db}
}

// selectWithAuthor joins the author's username so read projections can show
// it without a second lookup.
const selectWithAuthor = `SELECT c.*, COALESCE(u.username, 'unknown') AS author_name
	FROM receipt_comments c
	LEFT JOIN users u ON u.id = c.author_id`

func (r *commentRepo) Create(ctx context.Context, c *domain.ReceiptComment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO receipt_comments (
			id, receipt_id, author_id, comment_text, created_at,
			parent_comment_id, is_admin_comment, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.ReceiptID, c.AuthorID, c.CommentText, c.CreatedAt,
		c.ParentCommentID, c.IsAdminComment, c.IsDeleted)
	if err != nil {
		return fmt.Errorf("commentRepo.Create: %w", err)
	}
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptComment, error) {
	var c domain.ReceiptComment
	err := r.db.GetContext(ctx, &c, selectWithAuthor+" WHERE c.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("commentRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *commentRepo) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.ReceiptComment, error) {
	var comments []domain.ReceiptComment
	err := r.db.SelectContext(ctx, &comments,
		selectWithAuthor+` WHERE c.receipt_id = $1 AND c.is_deleted = FALSE
		 ORDER BY c.created_at ASC`,
		receiptID)
	if err != nil {
		return nil, fmt.Errorf("commentRepo.ListByReceipt: %w", err)
	}
	return comments, nil
}

func (r *commentRepo) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID, deletedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipt_comments
		 SET is_deleted = TRUE, deleted_at = $1, deleted_by_user_id = $2
		 WHERE id = $3`,
		deletedAt, deletedBy, id)
	if err != nil {
		return fmt.Errorf("commentRepo.SoftDelete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("commentRepo.SoftDelete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepo) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM receipt_comments WHERE receipt_id = $1", receiptID)
	if err != nil {
		return 0, fmt.Errorf("commentRepo.DeleteByReceipt: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("commentRepo.DeleteByReceipt rows: %w", err)
	}
	return int(rows), nil
}

func (r *commentRepo) CountRecentForOwner(ctx context.Context, ownerID uuid.UUID, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM receipt_comments c
		 INNER JOIN receipts r ON r.id = c.receipt_id
		 WHERE r.owner_id = $1
		   AND c.author_id <> $1
		   AND c.is_deleted = FALSE
		   AND c.created_at > $2`,
		ownerID, since)
	if err != nil {
		return 0, fmt.Errorf("commentRepo.CountRecentForOwner: %w", err)
	}
	return count, nil
}
