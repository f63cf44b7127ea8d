package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kvitto/internal/domain"
	"kvitto/internal/port"
)

// StatsService exposes the read-only aggregate views backing the dashboards.
// All aggregates are computed on demand; nothing is cached or materialized.
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
	DashboardForUser(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error)
	Monthly(ctx context.Context, year int) ([]domain.MonthlyStats, error)
	PerUser(ctx context.Context) ([]domain.UserStats, error)
}

type statsService struct {
	repo port.StatsRepository
	now  func() time.Time
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(repo port.StatsRepository) StatsService {
	return &statsService{repo: repo, now: time.Now}
}

// monthStart returns the first instant of the current calendar month in UTC,
// the boundary for the "this month" counter.
func (s *statsService) monthStart() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.repo.Dashboard(ctx, s.monthStart())
}

func (s *statsService) DashboardForUser(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	return s.repo.DashboardForUser(ctx, ownerID, s.monthStart())
}

func (s *statsService) Monthly(ctx context.Context, year int) ([]domain.MonthlyStats, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	return s.repo.Monthly(ctx, year)
}

func (s *statsService) PerUser(ctx context.Context) ([]domain.UserStats, error) {
	return s.repo.PerUser(ctx)
}
