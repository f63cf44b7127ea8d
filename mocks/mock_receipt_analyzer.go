package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kvitto/internal/domain"
)

// MockReceiptAnalyzer is a mock implementation of port.ReceiptAnalyzer.
type MockReceiptAnalyzer struct {
	mock.Mock
}

func (m *MockReceiptAnalyzer) Analyze(ctx context.Context, fileBytes []byte, contentType string) (*domain.OCRResult, error) {
	args := m.Called(ctx, fileBytes, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OCRResult), args.Error(1)
}
