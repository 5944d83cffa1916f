package mailer

import (
	"context"
	"time"
)

// SendResult identifies a dispatched message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender is the mail transport. All reconciler emails are best-effort:
// callers log send failures and never propagate them.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}
