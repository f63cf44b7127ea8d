package noop

import (
	"context"
	"log"

	"kvitto/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendStatusChangeNotification(_ context.Context, toEmail, userName, fileName, oldStatus, newStatus string) error {
	log.Printf("[NOOP EMAIL] status change for %s (%s): %s %s -> %s", userName, toEmail, fileName, oldStatus, newStatus)
	return nil
}

func (s *noopSender) SendNewReceiptNotification(_ context.Context, adminEmail, memberName, fileName string, amount float64) error {
	log.Printf("[NOOP EMAIL] new receipt notice to %s: %s uploaded %s (%.2f)", adminEmail, memberName, fileName, amount)
	return nil
}

func (s *noopSender) SendCommentNotification(_ context.Context, toEmail, toName, fileName, commenterName, _ string, fromAdmin bool) error {
	log.Printf("[NOOP EMAIL] comment notice to %s (%s): %s commented on %s (admin=%t)", toName, toEmail, commenterName, fileName, fromAdmin)
	return nil
}
