package contact

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/smyva-leather/storefront-backend/internal/pkg/logging"
	"go.uber.org/zap"
)

var ErrInvalidSubmission = errors.New("contact: missing required fields")

// Submission is a storefront contact-form entry. Phone is optional.
type Submission struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

func (s Submission) validate() error {
	if s.FirstName == "" || s.LastName == "" || s.Email == "" || s.Subject == "" || s.Message == "" {
		return ErrInvalidSubmission
	}
	return nil
}

var bodyTemplate = template.Must(template.New("contact").Parse(`<h3>New message from the Smyva Leather contact form</h3>
<p><b>Name:</b> {{.FirstName}} {{.LastName}}</p>
<p><b>Email:</b> {{.Email}}</p>
<p><b>Phone:</b> {{.Phone}}</p>
<hr>
<p><b>Message:</b></p>
<p>{{.Message}}</p>
`))

// Service relays contact submissions to the configured inbox. Delivery
// failures are reported to the caller; there is no retry or queueing.
type Service struct {
	mailer Mailer
	inbox  string
}

func NewService(mailer Mailer, inbox string) *Service {
	return &Service{mailer: mailer, inbox: inbox}
}

// Relay renders the fixed HTML template and hands the message to the
// transport. The visitor's name and address form the From header so replies
// go back to them.
func (s *Service) Relay(ctx context.Context, sub Submission) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "contact_relay"))

	if err := sub.validate(); err != nil {
		return err
	}

	body, err := renderBody(sub)
	if err != nil {
		return fmt.Errorf("contact: render body: %w", err)
	}

	email := Email{
		FromName:    sub.FirstName + " " + sub.LastName,
		FromAddress: sub.Email,
		To:          s.inbox,
		Subject:     "Contact Form: " + sub.Subject,
		HTMLBody:    body,
	}
	if err := s.mailer.Send(ctx, email); err != nil {
		logger.Error("contact_email_failed", zap.Error(err))
		return fmt.Errorf("contact: send email: %w", err)
	}

	logger.Info("contact_email_sent")
	return nil
}

func renderBody(sub Submission) (string, error) {
	if sub.Phone == "" {
		sub.Phone = "not provided"
	}
	var b strings.Builder
	if err := bodyTemplate.Execute(&b, sub); err != nil {
		return "", err
	}
	return b.String(), nil
}
