package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"kvitto/internal/domain"
)

// MockCommentRepo is a mock implementation of port.CommentRepository.
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, c *domain.ReceiptComment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReceiptComment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptComment), args.Error(1)
}

func (m *MockCommentRepo) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]domain.ReceiptComment, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceiptComment), args.Error(1)
}

func (m *MockCommentRepo) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID, deletedAt time.Time) error {
	args := m.Called(ctx, id, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockCommentRepo) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) (int, error) {
	args := m.Called(ctx, receiptID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommentRepo) CountRecentForOwner(ctx context.Context, ownerID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Int(0), args.Error(1)
}
