package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kvitto/internal/domain"
	"kvitto/internal/service"
)

// MockReceiptService is a mock implementation of service.ReceiptService.
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Create(ctx context.Context, input service.CreateReceiptInput) (*domain.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Receipt, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) ListAll(ctx context.Context) ([]domain.Receipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) UpdateStatus(ctx context.Context, receiptID uuid.UUID, newStatus domain.ReceiptStatus, adminID uuid.UUID, meta service.RequestMeta) error {
	args := m.Called(ctx, receiptID, newStatus, adminID, meta)
	return args.Error(0)
}

func (m *MockReceiptService) Delete(ctx context.Context, receiptID, adminID uuid.UUID, meta service.RequestMeta) error {
	args := m.Called(ctx, receiptID, adminID, meta)
	return args.Error(0)
}

func (m *MockReceiptService) DownloadURL(ctx context.Context, receiptID uuid.UUID) (string, error) {
	args := m.Called(ctx, receiptID)
	return args.String(0), args.Error(1)
}
