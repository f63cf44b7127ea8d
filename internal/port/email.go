package port

import "context"

// EmailSender defines the notification contract. All calls are fire-and-forget
// from the services' perspective: failures are logged, never surfaced.
type EmailSender interface {
	SendStatusChangeNotification(ctx context.Context, toEmail, userName, fileName, oldStatus, newStatus string) error
	SendNewReceiptNotification(ctx context.Context, adminEmail, memberName, fileName string, amount float64) error
	SendCommentNotification(ctx context.Context, toEmail, toName, fileName, commenterName, commentText string, fromAdmin bool) error
}
