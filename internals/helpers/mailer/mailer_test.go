package mailer

import (
	"context"
	"errors"
	"net/mail"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingMailer struct{ calls atomic.Int32 }

func (f *failingMailer) Send(context.Context, Message) error {
	f.calls.Add(1)
	return errors.New("smtp down")
}

func TestDispatcherSendsAndWaits(t *testing.T) {
	console := NewConsoleMailer(mail.Address{Name: "School", Address: "school@example.com"}, nil)
	d := NewDispatcher(console, nil)

	d.SendAsync(
		Message{To: []mail.Address{{Address: "a@example.com"}}, Subject: "one", TextContent: "hi"},
		Message{To: []mail.Address{{Address: "b@example.com"}}, Subject: "two", TextContent: "hi"},
	)
	d.Wait()

	assert.Len(t, console.Sent(), 2)
}

func TestDispatcherSkipsEmptyMessages(t *testing.T) {
	console := NewConsoleMailer(mail.Address{Address: "school@example.com"}, nil)
	d := NewDispatcher(console, nil)

	d.SendAsync(
		Message{Subject: "no recipients", TextContent: "x"},
		Message{To: []mail.Address{{Address: "a@example.com"}}, Subject: "no body"},
	)
	d.Wait()

	assert.Empty(t, console.Sent())
}

func TestDispatcherSwallowsSendErrors(t *testing.T) {
	f := &failingMailer{}
	d := NewDispatcher(f, nil)
	d.SendAsync(Message{To: []mail.Address{{Address: "a@example.com"}}, Subject: "x", TextContent: "y"})
	d.Wait()
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	d.SendAsync(Message{To: []mail.Address{{Address: "a@example.com"}}, TextContent: "x"})
	d.Wait()
}

func TestSendgridPrepareAddsPrefixAndRecipients(t *testing.T) {
	s := NewSendgridMailer("key", mail.Address{Name: "School", Address: "school@example.com"}, "Classroom")
	m := s.prepare(Message{
		To:          []mail.Address{{Name: "Ana", Address: "ana@example.com"}},
		Subject:     "Enrollment approved",
		TextContent: "welcome",
	})
	if assert.Len(t, m.Personalizations, 1) {
		assert.Equal(t, "[Classroom] Enrollment approved", m.Personalizations[0].Subject)
		assert.Equal(t, "ana@example.com", m.Personalizations[0].To[0].Address)
	}
	assert.Len(t, m.Content, 1)
}
