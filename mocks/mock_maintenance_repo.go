package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMaintenanceRepo is a mock implementation of port.MaintenanceRepository.
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) ResetData(ctx context.Context) (int, int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}
