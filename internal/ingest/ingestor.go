package ingest

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"kvitto/internal/service"
)

// placeholderPrice is recorded for ingested files until someone edits the
// declared amount through the UI. OCR fields still populate normally.
const placeholderPrice = 0.01

// Ingestor submits watched files through the regular receipt pipeline on
// behalf of a fixed owner account.
type Ingestor struct {
	receipts service.ReceiptService
	ownerID  uuid.UUID
}

// NewIngestor creates an Ingestor uploading as the given owner.
func NewIngestor(receipts service.ReceiptService, ownerID uuid.UUID) *Ingestor {
	return &Ingestor{receipts: receipts, ownerID: ownerID}
}

// Run consumes paths until the channel closes. Each file is uploaded and then
// removed from the drop directory; failures leave the file in place for the
// next scan.
func (i *Ingestor) Run(ctx context.Context, paths <-chan string) {
	for path := range paths {
		if err := i.ingestOne(ctx, path); err != nil {
			log.Printf("ingestor.Run: %s failed: %v", path, err)
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Printf("ingestor.Run: uploaded but could not remove %s: %v", path, err)
		}
	}
}

func (i *Ingestor) ingestOne(ctx context.Context, path string) error {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rec, err := i.receipts.Create(ctx, service.CreateReceiptInput{
		OwnerID:       i.ownerID,
		FileBytes:     fileBytes,
		FileName:      filepath.Base(path),
		ReceiptDate:   time.Now().UTC(),
		DeclaredPrice: placeholderPrice,
		Meta:          service.RequestMeta{UserAgent: "kvitto-ingestd"},
	})
	if err != nil {
		return err
	}

	log.Printf("ingestor.ingestOne: uploaded %s as receipt %s", path, rec.ID)
	return nil
}
