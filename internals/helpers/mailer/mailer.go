package mailer

import (
	"context"
	"net/mail"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Message struct {
	To          []mail.Address
	Subject     string
	TextContent string
	HTMLContent string
}

func (m Message) HasRecipients() bool { return len(m.To) > 0 }

func (m Message) HasContent() bool { return m.TextContent != "" || m.HTMLContent != "" }

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher mengirim email di goroutine terpisah; Wait dipakai saat shutdown/test.
type Dispatcher struct {
	mailer  Mailer
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(m Mailer, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{mailer: m, log: log, timeout: 15 * time.Second}
}

// SendAsync: best-effort, error hanya di-log
func (d *Dispatcher) SendAsync(messages ...Message) {
	if d == nil || d.mailer == nil {
		return
	}
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		msg := msg
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := d.mailer.Send(ctx, msg); err != nil {
				d.log.Error("sending email", zap.String("subject", msg.Subject), zap.Error(err))
			}
		}()
	}
}

func (d *Dispatcher) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}

// Addresses: satu penerima; kosong kalau email kosong
func Addresses(name, email string) []mail.Address {
	if email == "" {
		return nil
	}
	return []mail.Address{{Name: name, Address: email}}
}
