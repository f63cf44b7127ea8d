package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

// COALESCE keeps averages at 0.0 for empty subsets instead of NULL.
const dashboardQuery = `SELECT
	COUNT(*) AS total_receipts,
	COALESCE(SUM(declared_price), 0) AS total_amount,
	COALESCE(AVG(ocr_confidence), 0) AS average_ocr_confidence,
	COUNT(CASE WHEN uploaded_at >= $1 THEN 1 END) AS receipts_this_month,
	COUNT(CASE WHEN status = 'open' THEN 1 END) AS open_receipts,
	COUNT(CASE WHEN status = 'in_review' THEN 1 END) AS in_review_receipts,
	COUNT(CASE WHEN status = 'closed' THEN 1 END) AS closed_receipts
FROM receipts`

const monthlyQuery = `SELECT
	$1::int AS year,
	EXTRACT(MONTH FROM uploaded_at)::int AS month,
	COUNT(*) AS receipt_count,
	COALESCE(SUM(declared_price), 0) AS total_amount,
	COALESCE(AVG(ocr_confidence), 0) AS average_confidence
FROM receipts
WHERE EXTRACT(YEAR FROM uploaded_at) = $1
GROUP BY EXTRACT(MONTH FROM uploaded_at)
ORDER BY month ASC`

const perUserQuery = `SELECT
	u.id AS user_id,
	u.username AS username,
	u.email AS email,
	COUNT(r.id) AS receipt_count,
	COALESCE(SUM(r.declared_price), 0) AS total_amount,
	COALESCE(AVG(r.ocr_confidence), 0) AS average_confidence
FROM receipts r
INNER JOIN users u ON u.id = r.owner_id
GROUP BY u.id, u.username, u.email
ORDER BY receipt_count DESC`

func (r *statsRepo) Dashboard(ctx context.Context, monthStart time.Time) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := r.db.GetContext(ctx, &stats, dashboardQuery, monthStart); err != nil {
		return nil, fmt.Errorf("statsRepo.Dashboard: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) DashboardForUser(ctx context.Context, ownerID uuid.UUID, monthStart time.Time) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	query := dashboardQuery + " WHERE owner_id = $2"
	if err := r.db.GetContext(ctx, &stats, query, monthStart, ownerID); err != nil {
		return nil, fmt.Errorf("statsRepo.DashboardForUser: %w", err)
	}
	return &stats, nil
}

func (r *statsRepo) Monthly(ctx context.Context, year int) ([]domain.MonthlyStats, error) {
	var stats []domain.MonthlyStats
	if err := r.db.SelectContext(ctx, &stats, monthlyQuery, year); err != nil {
		return nil, fmt.Errorf("statsRepo.Monthly: %w", err)
	}
	return stats, nil
}

func (r *statsRepo) PerUser(ctx context.Context) ([]domain.UserStats, error) {
	var stats []domain.UserStats
	if err := r.db.SelectContext(ctx, &stats, perUserQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.PerUser: %w", err)
	}
	return stats, nil
}
