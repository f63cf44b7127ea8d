package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"kvitto/internal/port"
)

type maintenanceRepo struct {
	db *sqlx.DB
}

// NewMaintenanceRepo creates a new PostgreSQL-backed MaintenanceRepository.
func NewMaintenanceRepo(db *sqlx.DB) port.MaintenanceRepository {
	return &maintenanceRepo{db: db}
}

// ResetData wipes all workflow data in one transaction. Comments go first
// (they reference receipts), then receipts, then audit entries. User accounts
// are kept.
func (r *maintenanceRepo) ResetData(ctx context.Context) (comments, receipts, auditEntries int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("maintenanceRepo.ResetData begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del := func(table string) (int, error) {
		result, execErr := tx.ExecContext(ctx, "DELETE FROM "+table)
		if execErr != nil {
			return 0, fmt.Errorf("maintenanceRepo.ResetData %s: %w", table, execErr)
		}
		rows, raErr := result.RowsAffected()
		if raErr != nil {
			return 0, fmt.Errorf("maintenanceRepo.ResetData %s rows: %w", table, raErr)
		}
		return int(rows), nil
	}

	if comments, err = del("receipt_comments"); err != nil {
		return 0, 0, 0, err
	}
	if receipts, err = del("receipts"); err != nil {
		return 0, 0, 0, err
	}
	if auditEntries, err = del("audit_log"); err != nil {
		return 0, 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, 0, fmt.Errorf("maintenanceRepo.ResetData commit: %w", err)
	}
	return comments, receipts, auditEntries, nil
}
