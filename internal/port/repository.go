package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kvitto/internal/domain"
)

// ReceiptRepository defines receipt persistence.
type ReceiptRepository interface {
	Create(ctx context.Context, r *domain.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Receipt, error)
	ListAll(ctx context.Context) ([]domain.Receipt, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReceiptStatus, changedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditFilter narrows an audit log query. Zero values mean "no filter".
// UserID matches entries where the user is the actor OR the target.
type AuditFilter struct {
	ActionContains string
	UserID         *uuid.UUID
	EntityID       string
	From           *time.Time
	To             *time.Time
}

// AuditLogRepository defines append-only audit ledger persistence. Entries are
// never updated; deletion happens only through MaintenanceRepository.ResetData.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLogEntry) error
	List(ctx context.Context, filter AuditFilter, offset, limit int) ([]domain.AuditLogEntry, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLogEntry, error)
	ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]domain.AuditLogEntry, error)
	ListAll(ctx context.Context) ([]domain.AuditLogEntry, error)
	Count(ctx context.Context) (int, error)
}

// CommentRepository defines receipt comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.ReceiptComment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptComment, error)
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.ReceiptComment, error)
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID, deletedAt time.Time) error
	DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) (int, error)
	CountRecentForOwner(ctx context.Context, ownerID uuid.UUID, since time.Time) (int, error)
}

// UserRepository is the identity collaborator: it resolves user ids to email,
// username and role membership, and backs user administration.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	FirstAdmin(ctx context.Context) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatsRepository provides the derived read-only aggregate views.
type StatsRepository interface {
	Dashboard(ctx context.Context, monthStart time.Time) (*domain.DashboardStats, error)
	DashboardForUser(ctx context.Context, ownerID uuid.UUID, monthStart time.Time) (*domain.DashboardStats, error)
	Monthly(ctx context.Context, year int) ([]domain.MonthlyStats, error)
	PerUser(ctx context.Context) ([]domain.UserStats, error)
}

// MaintenanceRepository backs the administrative full-wipe operation.
type MaintenanceRepository interface {
	// ResetData deletes all comments, receipts and audit entries, in that
	// order (comments reference receipts; audit entries have no dependents).
	ResetData(ctx context.Context) (comments, receipts, auditEntries int, err error)
}
