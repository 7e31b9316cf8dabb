package mailer

import (
	"context"
	"net/mail"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ConsoleMailer menulis email ke log; dipakai saat SENDGRID_API_KEY kosong.
type ConsoleMailer struct {
	from mail.Address
	log  *zap.Logger

	mu   sync.Mutex
	sent []Message
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(from mail.Address, log *zap.Logger) *ConsoleMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConsoleMailer{from: from, log: log}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	to := make([]string, 0, len(msg.To))
	for _, a := range msg.To {
		to = append(to, a.String())
	}
	m.log.Info("email",
		zap.String("from", m.from.String()),
		zap.String("to", strings.Join(to, ", ")),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextContent),
	)
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

// Sent: salinan email yang sudah "dikirim" (test)
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}
