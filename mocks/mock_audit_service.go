package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kvitto/internal/domain"
	"kvitto/internal/port"
	"kvitto/internal/service"
)

// MockAuditService is a mock implementation of service.AuditService.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, input service.RecordAuditInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAuditService) List(ctx context.Context, filter port.AuditFilter, offset, limit int) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

func (m *MockAuditService) ListForReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

func (m *MockAuditService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

func (m *MockAuditService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
