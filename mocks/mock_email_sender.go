package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendStatusChangeNotification(ctx context.Context, toEmail, userName, fileName, oldStatus, newStatus string) error {
	args := m.Called(ctx, toEmail, userName, fileName, oldStatus, newStatus)
	return args.Error(0)
}

func (m *MockEmailSender) SendNewReceiptNotification(ctx context.Context, adminEmail, memberName, fileName string, amount float64) error {
	args := m.Called(ctx, adminEmail, memberName, fileName, amount)
	return args.Error(0)
}

func (m *MockEmailSender) SendCommentNotification(ctx context.Context, toEmail, toName, fileName, commenterName, commentText string, fromAdmin bool) error {
	args := m.Called(ctx, toEmail, toName, fileName, commenterName, commentText, fromAdmin)
	return args.Error(0)
}
