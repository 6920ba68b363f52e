// Package notify is the outbound mail gateway.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// LogMailer writes mail to the log instead of delivering it.
type LogMailer struct {
	Logger *slog.Logger
}

func (l LogMailer) Send(_ context.Context, m Mail) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail sent", "to", m.To, "subject", m.Subject, "body", m.Body)
	return nil
}

// Recorder keeps sent mail in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Mail
}

func (r *Recorder) Send(_ context.Context, m Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return nil
}

func (r *Recorder) Sent() []Mail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Mail(nil), r.sent...)
}
