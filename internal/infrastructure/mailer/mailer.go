// Package mailer adapts an SMTP transport to the contact relay's mailer port.
package mailer

import (
	"context"
	"fmt"

	"github.com/smyva-leather/storefront-backend/internal/application/contact"
	"gopkg.in/gomail.v2"
)

type SMTP struct {
	dialer *gomail.Dialer
}

// New configures an authenticated SMTP dialer. The connection is established
// per send; the relay has no delivery volume worth pooling for.
func New(host string, port int, username, password string) *SMTP {
	return &SMTP{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *SMTP) Send(ctx context.Context, email contact.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", email.FromAddress, email.FromName)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}
