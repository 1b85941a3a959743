package dispatch

import (
	"context"

	"go.uber.org/zap"
)

// Message is an outbound email with an optional document attachment.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers outbound messages.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// LogSender records outbound mail in the application log instead of
// delivering it. Used in development and in environments without a
// configured mail relay; delivery still marks the invoice as sent.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	s.logger.Info("outbound email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("attachment", msg.AttachmentName),
		zap.Int("attachmentBytes", len(msg.Attachment)),
	)
	return nil
}
