package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kvitto/internal/domain"
	"kvitto/internal/service"
	"kvitto/mocks"
)

func isCurrentMonthStart(ts time.Time) bool {
	now := time.Now().UTC()
	want := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return ts.Equal(want)
}

func TestDashboard_UsesFirstOfCurrentMonth(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	repo.On("Dashboard", mock.Anything, mock.MatchedBy(isCurrentMonthStart)).
		Return(&domain.DashboardStats{TotalReceipts: 12}, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalReceipts)
	repo.AssertExpectations(t)
}

func TestDashboard_EmptyDatasetYieldsZeroes(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	repo.On("Dashboard", mock.Anything, mock.Anything).Return(&domain.DashboardStats{}, nil)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.AverageOcrConfidence)
}

func TestDashboardForUser_ScopesToOwner(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)
	ownerID := uuid.New()

	repo.On("DashboardForUser", mock.Anything, ownerID, mock.MatchedBy(isCurrentMonthStart)).
		Return(&domain.DashboardStats{TotalReceipts: 3}, nil)

	stats, err := svc.DashboardForUser(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalReceipts)
}

func TestMonthly_ZeroYearDefaultsToCurrent(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	repo.On("Monthly", mock.Anything, time.Now().UTC().Year()).Return([]domain.MonthlyStats{}, nil)

	_, err := svc.Monthly(context.Background(), 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
