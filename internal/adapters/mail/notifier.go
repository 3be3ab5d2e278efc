// Package mail implements the Notifier port over plain SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Notifier struct {
	addr string // host:port of the relay
	from string
	to   string
}

func New(addr, from, to string) *Notifier {
	return &Notifier{addr: addr, from: from, to: to}
}

// Send delivers one notification to the configured operator address. The
// context only gates starting the send; SMTP itself has no mid-transaction
// cancellation.
func (n *Notifier) Send(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + n.to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(n.addr, nil, n.from, []string{n.to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: send %q: %w", subject, err)
	}
	return nil
}
