package port

import (
	"context"

	"kvitto/internal/domain"
)

// ReceiptAnalyzer abstracts the external OCR collaborator that turns document
// bytes into structured financial fields with a confidence score.
type ReceiptAnalyzer interface {
	Analyze(ctx context.Context, fileBytes []byte, contentType string) (*domain.OCRResult, error)
}
