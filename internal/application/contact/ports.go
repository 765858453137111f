package contact

import "context"

// Email is a rendered message ready for the transport.
type Email struct {
	FromName    string
	FromAddress string
	To          string
	Subject     string
	HTMLBody    string
}

// Mailer is the outbound port for the email transport.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
