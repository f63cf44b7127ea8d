package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

type auditLogRepo struct {
	db *sqlx.DB
}

// NewAuditLogRepo creates a new PostgreSQL-backed AuditLogRepository.
func NewAuditLogRepo(db *sqlx.DB) port.AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (
			id, timestamp_utc, action, entity_type, entity_id,
			actor_user_id, actor_email, target_user_id,
			ip_address, user_agent, details_json, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID, entry.TimestampUTC, entry.Action, entry.EntityType, entry.EntityID,
		entry.ActorUserID, entry.ActorEmail, entry.TargetUserID,
		entry.IPAddress, entry.UserAgent, entry.DetailsJSON, entry.Description)
	if err != nil {
		return fmt.Errorf("auditLogRepo.Create: %w", err)
	}
	return nil
}

func (r *auditLogRepo) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter.ActionContains != "" {
		add("action LIKE ?", "%"+filter.ActionContains+"%")
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		n := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(actor_user_id = "+n+" OR target_user_id = "+n+")")
	}
	if filter.EntityID != "" {
		add("entity_id = ?", filter.EntityID)
	}
	if filter.From != nil {
		add("timestamp_utc >= ?", *filter.From)
	}
	if filter.To != nil {
		add("timestamp_utc <= ?", *filter.To)
	}

	query := "SELECT * FROM audit_log"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY timestamp_utc DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	var entries []domain.AuditLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("auditLogRepo.List: %w", err)
	}
	return entries, nil
}

func (r *auditLogRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLogEntry, error) {
	var entries []domain.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_log WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY timestamp_utc DESC`,
		entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("auditLogRepo.ListByEntity: %w", err)
	}
	return entries, nil
}

func (r *auditLogRepo) ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]domain.AuditLogEntry, error) {
	var entries []domain.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_log WHERE actor_user_id = $1
		 ORDER BY timestamp_utc DESC LIMIT $2`,
		actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("auditLogRepo.ListByActor: %w", err)
	}
	return entries, nil
}

func (r *auditLogRepo) ListAll(ctx context.Context) ([]domain.AuditLogEntry, error) {
	var entries []domain.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM audit_log ORDER BY timestamp_utc DESC")
	if err != nil {
		return nil, fmt.Errorf("auditLogRepo.ListAll: %w", err)
	}
	return entries, nil
}

func (r *auditLogRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM audit_log"); err != nil {
		return 0, fmt.Errorf("auditLogRepo.Count: %w", err)
	}
	return total, nil
}
