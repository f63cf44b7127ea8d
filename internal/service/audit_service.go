package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

// userAuditLimit caps the per-actor history query.
const userAuditLimit = 100

// RequestMeta carries optional client metadata into audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// RecordAuditInput is the DTO for appending one audit ledger entry. The entry
// timestamp is always assigned by the service at append time; callers cannot
// supply one.
type RecordAuditInput struct {
	Action       string
	EntityType   string
	EntityID     string
	ActorID      uuid.UUID
	ActorEmail   *string
	TargetUserID *uuid.UUID
	DetailsJSON  *string
	Description  *string
	Meta         RequestMeta
}

// AuditService defines the append-only audit ledger contract.
type AuditService interface {
	Record(ctx context.Context, input RecordAuditInput) error
	List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, error)
	ListForReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.AuditLogEntry, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.AuditLogEntry, error)
	Count(ctx context.Context) (int, error)
}

type auditService struct {
	repo port.AuditLogRepository
	now  func() time.Time
}

// NewAuditService creates a new AuditService implementation.
func NewAuditService(repo port.AuditLogRepository) AuditService {
	return &auditService{repo: repo, now: time.Now}
}

func (s *auditService) Record(ctx context.Context, input RecordAuditInput) error {
	entry := &domain.AuditLogEntry{
		ID:           uuid.New(),
		TimestampUTC: s.now().UTC(),
		Action:       input.Action,
		EntityType:   input.EntityType,
		EntityID:     input.EntityID,
		ActorUserID:  input.ActorID,
		ActorEmail:   input.ActorEmail,
		TargetUserID: input.TargetUserID,
		DetailsJSON:  input.DetailsJSON,
		Description:  input.Description,
	}
	if input.Meta.IPAddress != "" {
		ip := input.Meta.IPAddress
		entry.IPAddress = &ip
	}
	if input.Meta.UserAgent != "" {
		ua := input.Meta.UserAgent
		entry.UserAgent = &ua
	}
	return s.repo.Create(ctx, entry)
}

func (s *auditService) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, filter, offset, limit)
}

func (s *auditService) ListForReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.AuditLogEntry, error) {
	return s.repo.ListByEntity(ctx, domain.EntityReceipt, receiptID.String())
}

func (s *auditService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.AuditLogEntry, error) {
	return s.repo.ListByActor(ctx, userID, userAuditLimit)
}

func (s *auditService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
