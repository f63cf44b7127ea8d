package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"kvitto/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendStatusChangeNotification(ctx context.Context, toEmail, userName, fileName, oldStatus, newStatus string) error {
	subject := fmt.Sprintf("Receipt %s: status changed to %s", fileName, newStatus)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nThe status of your receipt %q changed from %s to %s.\n\nKvitto",
		userName, fileName, oldStatus, newStatus)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>The status of your receipt <strong>%s</strong> changed from <em>%s</em> to <em>%s</em>.</p><p>Kvitto</p>`,
		userName, fileName, oldStatus, newStatus)
	return s.send(ctx, toEmail, subject, textBody, htmlBody)
}

func (s *sesSender) SendNewReceiptNotification(ctx context.Context, adminEmail, memberName, fileName string, amount float64) error {
	subject := fmt.Sprintf("New receipt from %s", memberName)
	textBody := fmt.Sprintf(
		"Hi,\n\n%s uploaded a new receipt %q over %.2f and it is waiting for review.\n\nKvitto",
		memberName, fileName, amount)
	htmlBody := fmt.Sprintf(
		`<p>Hi,</p><p>%s uploaded a new receipt <strong>%s</strong> over %.2f and it is waiting for review.</p><p>Kvitto</p>`,
		memberName, fileName, amount)
	return s.send(ctx, adminEmail, subject, textBody, htmlBody)
}

func (s *sesSender) SendCommentNotification(ctx context.Context, toEmail, toName, fileName, commenterName, commentText string, fromAdmin bool) error {
	who := commenterName
	if fromAdmin {
		who = commenterName + " (admin)"
	}
	subject := fmt.Sprintf("New comment on receipt %s", fileName)
	textBody := fmt.Sprintf(
		"Hi %s,\n\n%s commented on receipt %q:\n\n%s\n\nKvitto",
		toName, who, fileName, commentText)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>%s commented on receipt <strong>%s</strong>:</p><blockquote>%s</blockquote><p>Kvitto</p>`,
		toName, who, fileName, commentText)
	return s.send(ctx, toEmail, subject, textBody, htmlBody)
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, textBody, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
