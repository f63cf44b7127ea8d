package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

// unreadWindow is how far back the dashboard counts comments on a member's
// receipts written by somebody else. There is no per-comment read state.
const unreadWindow = 7 * 24 * time.Hour

// AddCommentInput is the DTO for posting a comment or a reply.
type AddCommentInput struct {
	ReceiptID       uuid.UUID
	AuthorID        uuid.UUID
	CommentText     string
	ParentCommentID *uuid.UUID
	Meta            RequestMeta
}

// CommentService manages the threaded discussion attached to each receipt.
// Deletion is always a soft delete; replies of a deleted comment stay visible.
type CommentService interface {
	Add(ctx context.Context, input AddCommentInput) (*domain.ReceiptComment, error)
	ListForReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.CommentNode, error)
	SoftDelete(ctx context.Context, commentID, deletedBy uuid.UUID, meta RequestMeta) (bool, error)
	CountRecentForOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type commentService struct {
	commentRepo port.CommentRepository
	receiptRepo port.ReceiptRepository
	userRepo    port.UserRepository
	audit       AuditService
	email       port.EmailSender
	now         func() time.Time
}

// NewCommentService creates a new CommentService implementation.
func NewCommentService(
	commentRepo port.CommentRepository,
	receiptRepo port.ReceiptRepository,
	userRepo port.UserRepository,
	audit AuditService,
	email port.EmailSender,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		receiptRepo: receiptRepo,
		userRepo:    userRepo,
		audit:       audit,
		email:       email,
		now:         time.Now,
	}
}

func (s *commentService) Add(ctx context.Context, input AddCommentInput) (*domain.ReceiptComment, error) {
	text := strings.TrimSpace(input.CommentText)
	if text == "" {
		return nil, domain.ErrEmptyComment
	}
	if len(text) > domain.MaxCommentLength {
		return nil, domain.ErrCommentTooLong
	}

	rec, err := s.receiptRepo.GetByID(ctx, input.ReceiptID)
	if err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}

	// A reply must point at an existing comment on the same receipt.
	// Replying to a soft-deleted comment is allowed.
	if input.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *input.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.ReceiptID != input.ReceiptID {
			return nil, domain.ErrCommentNotFound
		}
	}

	c := &domain.ReceiptComment{
		ID:              uuid.New(),
		ReceiptID:       input.ReceiptID,
		AuthorID:        author.ID,
		AuthorName:      author.Username,
		CommentText:     text,
		CreatedAt:       s.now().UTC(),
		ParentCommentID: input.ParentCommentID,
		IsAdminComment:  author.Role == domain.RoleAdmin,
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	ownerID := rec.OwnerID
	desc := fmt.Sprintf("Comment added on %s", rec.FileName)
	details := marshalDetails(map[string]interface{}{
		"receipt_id": rec.ID.String(),
		"is_reply":   input.ParentCommentID != nil,
		"length":     len(text),
	})
	if err := s.audit.Record(ctx, RecordAuditInput{
		Action:       domain.AuditCommentAdded,
		EntityType:   domain.EntityComment,
		EntityID:     c.ID.String(),
		ActorID:      author.ID,
		ActorEmail:   &author.Email,
		TargetUserID: &ownerID,
		DetailsJSON:  details,
		Description:  &desc,
		Meta:         input.Meta,
	}); err != nil {
		log.Printf("commentService.Add: audit append failed for %s: %v", c.ID, err)
	}

	s.notify(ctx, rec, author, text)

	return c, nil
}

// ListForReceipt returns the non-deleted comments of a receipt as a thread.
// Replies whose parent is deleted (and therefore absent from the result set)
// are promoted to top level rather than dropped.
func (s *commentService) ListForReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.CommentNode, error) {
	comments, err := s.commentRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	present := make(map[uuid.UUID]bool, len(comments))
	for _, c := range comments {
		present[c.ID] = true
	}

	children := make(map[uuid.UUID][]domain.ReceiptComment)
	var roots []domain.ReceiptComment
	for _, c := range comments {
		if c.ParentCommentID != nil && present[*c.ParentCommentID] {
			children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c)
		} else {
			roots = append(roots, c)
		}
	}

	var build func(c domain.ReceiptComment) domain.CommentNode
	build = func(c domain.ReceiptComment) domain.CommentNode {
		node := domain.CommentNode{ReceiptComment: c, Replies: []domain.CommentNode{}}
		for _, child := range children[c.ID] {
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	nodes := make([]domain.CommentNode, 0, len(roots))
	for _, r := range roots {
		nodes = append(nodes, build(r))
	}
	return nodes, nil
}

// SoftDelete marks a comment deleted without touching its replies. It returns
// false when the comment does not exist or is already deleted.
func (s *commentService) SoftDelete(ctx context.Context, commentID, deletedBy uuid.UUID, meta RequestMeta) (bool, error) {
	c, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return false, nil
		}
		return false, err
	}
	if c.IsDeleted {
		return false, nil
	}

	if err := s.commentRepo.SoftDelete(ctx, commentID, deletedBy, s.now().UTC()); err != nil {
		return false, err
	}

	desc := "Comment deleted"
	authorID := c.AuthorID
	details := marshalDetails(map[string]interface{}{
		"receipt_id": c.ReceiptID.String(),
	})
	if err := s.audit.Record(ctx, RecordAuditInput{
		Action:       domain.AuditCommentDeleted,
		EntityType:   domain.EntityComment,
		EntityID:     commentID.String(),
		ActorID:      deletedBy,
		TargetUserID: &authorID,
		DetailsJSON:  details,
		Description:  &desc,
		Meta:         meta,
	}); err != nil {
		log.Printf("commentService.SoftDelete: audit append failed for %s: %v", commentID, err)
	}

	return true, nil
}

func (s *commentService) CountRecentForOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return s.commentRepo.CountRecentForOwner(ctx, ownerID, s.now().UTC().Add(-unreadWindow))
}

// notify routes the comment notification: an admin's comment goes to the
// receipt owner, a member's comment goes to the first admin. The author never
// notifies themselves. Failures are logged only.
func (s *commentService) notify(ctx context.Context, rec *domain.Receipt, author *domain.User, text string) {
	var recipient *domain.User
	var err error
	if author.Role == domain.RoleAdmin {
		if rec.OwnerID == author.ID {
			return
		}
		recipient, err = s.userRepo.GetByID(ctx, rec.OwnerID)
	} else {
		recipient, err = s.userRepo.FirstAdmin(ctx)
	}
	if err != nil {
		log.Printf("commentService.notify: recipient not resolvable: %v", err)
		return
	}
	if recipient.ID == author.ID {
		return
	}
	if err := s.email.SendCommentNotification(ctx, recipient.Email, recipient.Username,
		rec.FileName, author.Username, text, author.Role == domain.RoleAdmin); err != nil {
		log.Printf("commentService.notify: comment notification failed: %v", err)
	}
}
